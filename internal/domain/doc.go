// Package domain defines core data models, interfaces and error kinds shared
// across the wallet core. It contains plain types and contracts only.
package domain
