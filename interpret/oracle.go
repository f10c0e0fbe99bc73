// Package interpret is the boundary to the free-text interpretation oracle.
// The oracle maps natural language to a candidate structured action; every
// byte it returns is untrusted and is re-validated here (against the strict
// JSON schema) and in the gate (against session allowlists) before anything
// can act on it.
package interpret

import "context"

// Oracle accepts a system prompt, a user prompt and a JSON schema, and
// returns raw JSON claimed to conform to that schema. Implementations wrap
// whatever model or service performs the interpretation; this package never
// assumes the claim holds.
type Oracle interface {
	Complete(ctx context.Context, system, user string, schema []byte) ([]byte, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(ctx context.Context, system, user string, schema []byte) ([]byte, error)

func (f OracleFunc) Complete(ctx context.Context, system, user string, schema []byte) ([]byte, error) {
	return f(ctx, system, user, schema)
}
