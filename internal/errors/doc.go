// Package errors provides structured, coded errors for race.
//
// Every error the framework reports through its diagnostic channel carries a
// registered code that maps to:
//   - a category (config, runtime, structure, host, protocol, storage)
//   - a short message and a longer explanation
//   - an optional fix suggestion
//
// # Usage
//
//	err := errors.New(errors.CodeTargetNotFound).
//	    WithDetail(`no host element matches "#app"`).
//	    WithSuggestion("Create the container before mounting the app")
//
//	fmt.Println(err.Format())
//
// Two errors with the same code match under errors.Is, so callers can compare
// against the sentinel values exported by the race package.
package errors
