// Package parser turns raw proposal documents and change-request
// metadata into canonical records. One document in, one record out (or
// a skip); it never aborts a batch over a single bad document.
package parser

import (
	"context"
	"strings"

	"github.com/sipdex/sipdex/internal/core/domain"
	"github.com/sipdex/sipdex/internal/core/ports/driven"
	"github.com/sipdex/sipdex/internal/resolvers"
)

// minSummaryInput is the minimum combined input length below which the
// summariser is not worth calling; the fallback sentinel is used instead.
const minSummaryInput = 20

// headerAbstractKeys are the front-matter fields that may carry a short
// abstract, in lookup order.
var headerAbstractKeys = []string{"abstract", "description", "summary"}

// headerAuthorKeys are the front-matter fields that may carry the author.
var headerAuthorKeys = []string{"author", "authors"}

var headerCreatedKeys = []string{"created", "created-at", "date"}
var headerUpdatedKeys = []string{"updated", "updated-at", "last-updated"}

// Input is one document to parse, with its source context.
type Input struct {
	Raw        []byte
	SourceKind domain.SourceKind
	SourcePath string
	FileName   string

	// FolderDefaultStatus is the fetcher-supplied status default for
	// folder sources; ignored for change-request sources.
	FolderDefaultStatus domain.Status

	// ChangeRequest is set for change-request documents.
	ChangeRequest *driven.ChangeRequest

	// Browse and PullRequestURL construct repository URLs for the
	// origin-URL fallback chain.
	Browse         func(path string) string
	PullRequestURL func(number int) string
}

// Parser builds canonical records from raw documents.
type Parser struct {
	summariser driven.Summariser
}

// New creates a parser. The summariser may be nil, in which case every
// record carries the fallback summary.
func New(summariser driven.Summariser) *Parser {
	return &Parser{summariser: summariser}
}

// Parse converts one raw document into a record.
//
// Returns domain.ErrNotDistinctProposal when the document carries no
// identifier signal and came from a change request; callers skip such
// documents and rely on the change request's placeholder instead. Any
// other error likewise means "skip this document", never "abort".
func (p *Parser) Parse(ctx context.Context, in Input) (*domain.Record, error) {
	header, body := splitFrontMatter(in.Raw)

	cr := in.ChangeRequest
	idIn := resolvers.IdentifierInput{
		Header:     header,
		FileName:   in.FileName,
		SourceKind: in.SourceKind,
	}
	if cr != nil {
		idIn.ChangeRequestTitle = cr.Title
		idIn.ChangeRequestNumber = cr.Number
	}
	id, err := resolvers.ResolveIdentifier(idIn)
	if err != nil {
		return nil, err
	}

	titleIn := resolvers.TitleInput{HeaderTitle: header["title"], ID: id}
	if cr != nil {
		titleIn.ChangeRequestTitle = cr.Title
	}

	statusIn := resolvers.StatusInput{
		Explicit:      header["status"],
		SourceKind:    in.SourceKind,
		FolderDefault: in.FolderDefaultStatus,
	}
	if cr != nil {
		statusIn.Open = cr.State == driven.ChangeRequestOpen
		statusIn.Merged = cr.State == driven.ChangeRequestMerged || !cr.MergedAt.IsZero()
		statusIn.WithdrawnKeyword = resolvers.HasWithdrawnKeyword(cr.Title, cr.Body)
	}

	originIn := resolvers.OriginInput{
		Header:         header,
		SourcePath:     in.SourcePath,
		Browse:         in.Browse,
		PullRequestURL: in.PullRequestURL,
	}
	if cr != nil {
		originIn.ChangeRequestURL = cr.URL
	}

	rec := domain.Record{
		ID:         id,
		Title:      resolvers.ResolveTitle(titleIn),
		Status:     resolvers.ResolveStatus(statusIn),
		Body:       body,
		OriginURL:  resolvers.ResolveOriginURL(originIn),
		SourceKind: in.SourceKind,
		Author:     firstHeaderValue(header, headerAuthorKeys),
		SourcePath: in.SourcePath,
	}

	if cr != nil {
		// Change-request timestamps are authoritative over headers.
		rec.CreatedAt = cr.CreatedAt
		rec.UpdatedAt = cr.UpdatedAt
		rec.MergedAt = cr.MergedAt
		rec.ChangeRequestNumber = cr.Number
		if rec.Author == "" {
			rec.Author = cr.Author
		}
	} else {
		// Folder documents date from their headers; a missing created
		// date falls back to the epoch sentinel, never "now".
		rec.CreatedAt = domain.EpochSentinel
		if t, ok := resolvers.ParseDate(firstHeaderValue(header, headerCreatedKeys)); ok {
			rec.CreatedAt = t
		}
		if t, ok := resolvers.ParseDate(firstHeaderValue(header, headerUpdatedKeys)); ok {
			rec.UpdatedAt = t
		}
	}

	summary := p.summarise(ctx, body, firstHeaderValue(header, headerAbstractKeys))
	rec.Summary = summary.Headline
	rec.Structured = summary.Structured

	return &rec, nil
}

// Placeholder synthesizes the record that represents a change request
// itself, emitted whether or not a document file was found for it.
// This guarantees every change request is discoverable.
func (p *Parser) Placeholder(ctx context.Context, cr driven.ChangeRequest) domain.Record {
	id, err := resolvers.ResolveIdentifier(resolvers.IdentifierInput{
		ChangeRequestTitle:  cr.Title,
		ChangeRequestNumber: cr.Number,
		SourceKind:          domain.SourceChangeRequestPlaceholder,
	})
	if err != nil {
		// The change-request number always applies for placeholders;
		// resolution cannot fail for a valid request.
		id = domain.FormatID(cr.Number)
	}

	summary := p.summarise(ctx, cr.Body, "")

	return domain.Record{
		ID:    id,
		Title: resolvers.ResolveTitle(resolvers.TitleInput{ChangeRequestTitle: cr.Title, ID: id}),
		Status: resolvers.ResolveStatus(resolvers.StatusInput{
			SourceKind:       domain.SourceChangeRequestPlaceholder,
			Open:             cr.State == driven.ChangeRequestOpen,
			Merged:           cr.State == driven.ChangeRequestMerged || !cr.MergedAt.IsZero(),
			WithdrawnKeyword: resolvers.HasWithdrawnKeyword(cr.Title, cr.Body),
		}),
		Summary:             summary.Headline,
		Structured:          summary.Structured,
		OriginURL:           cr.URL,
		SourceKind:          domain.SourceChangeRequestPlaceholder,
		CreatedAt:           cr.CreatedAt,
		UpdatedAt:           cr.UpdatedAt,
		MergedAt:            cr.MergedAt,
		Author:              cr.Author,
		ChangeRequestNumber: cr.Number,
	}
}

// summarise calls the summariser, guarding against sparse input and a
// missing service. Callers always get a populated result.
func (p *Parser) summarise(ctx context.Context, body, abstract string) driven.SummaryResult {
	if p.summariser == nil {
		return driven.FallbackSummaryResult()
	}
	if len(strings.TrimSpace(body))+len(strings.TrimSpace(abstract)) < minSummaryInput {
		return driven.FallbackSummaryResult()
	}
	return p.summariser.Summarise(ctx, body, abstract)
}

func firstHeaderValue(header map[string]string, keys []string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(header[key]); v != "" {
			return v
		}
	}
	return ""
}
