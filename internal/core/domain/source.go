package domain

// SourceKind identifies where a record was fetched from. The set is
// closed; precedence between kinds is a total order.
type SourceKind string

const (
	// SourceAcceptedFolder is the directory of accepted proposal documents.
	SourceAcceptedFolder SourceKind = "accepted_folder"

	// SourceWithdrawnFolder is the directory of withdrawn proposal documents.
	SourceWithdrawnFolder SourceKind = "withdrawn_folder"

	// SourceChangeRequestDocument is a proposal document found among the
	// changed files of a change request.
	SourceChangeRequestDocument SourceKind = "change_request_document"

	// SourceChangeRequestPlaceholder is a synthesized record standing in
	// for a change request, emitted whether or not a document was found.
	SourceChangeRequestPlaceholder SourceKind = "change_request_placeholder"
)

// sourcePrecedence ranks sources for the merge engine. Higher wins.
var sourcePrecedence = map[SourceKind]int{
	SourceChangeRequestPlaceholder: 0,
	SourceChangeRequestDocument:    1,
	SourceAcceptedFolder:           2,
	SourceWithdrawnFolder:          3,
}

// Precedence returns the merge precedence of the source kind.
// Unknown kinds rank below every known kind.
func (k SourceKind) Precedence() int {
	if p, ok := sourcePrecedence[k]; ok {
		return p
	}
	return -1
}

// IsChangeRequest reports whether the record came from a change request
// rather than a document folder.
func (k SourceKind) IsChangeRequest() bool {
	return k == SourceChangeRequestDocument || k == SourceChangeRequestPlaceholder
}
