// Package normalize turns decoded JSON response bodies into their normalized form.
//
// The platform encodes every timestamp as an ISO-8601 string. Value walks an arbitrary
// decoded JSON tree and replaces each string that fully matches
// YYYY-MM-DDTHH:MM:SS[.frac](Z|±offset) with a time.Time, leaving everything else untouched.
// Object keys are never coerced. Strings that look like dates but do not describe a valid
// calendar instant (for example "2021-13-40T99:99:99Z") are passed through verbatim.
//
// # Usage
//
//	tree, err := normalize.Decode(body)
//	if err != nil {
//	    return err
//	}
//
//	var msg messages.Message
//	if err := normalize.Into(tree, &msg); err != nil {
//	    return err
//	}
//
// All functions are pure: inputs are never mutated and there is no shared state, so they
// are safe for concurrent use on independent inputs.
package normalize
