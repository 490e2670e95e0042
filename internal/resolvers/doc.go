// Package resolvers derives canonical record fields from raw document
// signals. Each derivation (identifier, status, title, origin URL,
// dates) is an explicit ordered chain of rules tried in sequence; the
// first rule that produces a value wins. Keeping the chains as plain
// rule lists makes each policy independently testable.
package resolvers
