// Package expr converts, evaluates and compiles infix arithmetic expressions.
//
// Three independent pipelines share one tokenizer:
//
//	infix   → Scan   → ToPostfix  → postfix text
//	postfix → fields → EvalPostfix → float32
//	infix   → Fields → Parse → Generate → three-address listing
//
// Every call owns its own stacks, parser cursor and temporary counter, so
// the package is safe for concurrent use.
package expr
