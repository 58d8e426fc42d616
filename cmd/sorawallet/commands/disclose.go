package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sorawallet/internal/domain"
	"sorawallet/internal/protocol/disclosure"
)

func discloseCmd() *cobra.Command {
	var saltsOut string
	var fields []string
	cmd := &cobra.Command{
		Use:         "disclose <document.json>",
		Short:       "Saltify a JSON document; print salted values and save the salts",
		Long:        "Flattens the document, salts every field and prints the salted values.\nThe salts are written to --salts and must be kept private. With --field\nonly the listed fields are printed.",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationNoWallet: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc domain.Document
			if err := readJSONFile(args[0], &doc); err != nil {
				return err
			}
			flat, err := disclosure.Flatten(doc)
			if err != nil {
				return err
			}
			salted, err := disclosure.Saltify(flat)
			if err != nil {
				return err
			}
			if saltsOut == "" {
				return fmt.Errorf("--salts is required")
			}
			if err := writeJSONFile(saltsOut, disclosure.GetSalts(salted), 0o600); err != nil {
				return err
			}
			if len(fields) > 0 {
				salted, err = disclosure.Disclose(salted, fields...)
				if err != nil {
					return err
				}
			}
			return writeJSON(cmd.OutOrStdout(), salted)
		},
	}
	cmd.Flags().StringVar(&saltsOut, "salts", "", "file to write the private salts to")
	cmd.Flags().StringSliceVar(&fields, "field", nil, "disclose only these flattened fields")
	return cmd
}

func resaltifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "resaltify <document.json> <salts.json>",
		Short:       "Rebuild the salted values of a document from its saved salts",
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{annotationNoWallet: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc domain.Document
			if err := readJSONFile(args[0], &doc); err != nil {
				return err
			}
			var salts domain.Salts
			if err := readJSONFile(args[1], &salts); err != nil {
				return err
			}
			flat, err := disclosure.Flatten(doc)
			if err != nil {
				return err
			}
			salted, err := disclosure.Resaltify(flat, salts)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), salted)
		},
	}
}
