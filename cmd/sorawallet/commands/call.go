package commands

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

func callCmd(st *rootState) *cobra.Command {
	var data string
	var headers []string
	cmd := &cobra.Command{
		Use:   "call <METHOD> <url>",
		Short: "Send an HTTP request signed by the active account",
		Long:  "Sends the request through the signing transport. With no active account\nthe request goes out anonymously. A relative url is resolved against --backend.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[1]
			if strings.HasPrefix(target, "/") {
				target = strings.TrimRight(st.wire.Config.BackendURL, "/") + target
			}
			var body io.Reader
			if data != "" {
				body = strings.NewReader(data)
			}
			ctx, cancel := st.ctx(cmd)
			defer cancel()
			req, err := http.NewRequestWithContext(ctx, strings.ToUpper(args[0]), target, body)
			if err != nil {
				return err
			}
			for _, h := range headers {
				k, v, ok := strings.Cut(h, ":")
				if !ok {
					return fmt.Errorf("header %q: want Name: value", h)
				}
				req.Header.Set(strings.TrimSpace(k), strings.TrimSpace(v))
			}
			resp, err := st.wire.HTTP.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, resp.Status)
			if _, err := io.Copy(out, resp.Body); err != nil {
				return err
			}
			if resp.StatusCode/100 != 2 {
				return fmt.Errorf("request failed: %s", resp.Status)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "request body")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "extra header (Name: value)")
	return cmd
}
