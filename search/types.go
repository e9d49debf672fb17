package search

import (
	"encoding/json"

	"github.com/teranos/plaszyme/enzyme"
	"github.com/teranos/plaszyme/errors"
	"github.com/teranos/plaszyme/rank"
	"github.com/teranos/plaszyme/sequence"
)

// Request is a search query as received from a client.
type Request struct {
	Sequence        string `json:"sequence"`
	MaxResults      int    `json:"max_results,omitempty"`
	Threshold       string `json:"threshold,omitempty"`
	TagFilter       string `json:"tag_filter,omitempty"`
	StructureFilter string `json:"structure_filter,omitempty"`

	// PlasticFilter is the older name of TagFilter, honored when TagFilter is empty.
	PlasticFilter string `json:"plastic_filter,omitempty"`
}

func (r Request) tagFilter() string {
	if r.TagFilter != "" {
		return r.TagFilter
	}
	return r.PlasticFilter
}

// SearchInfo echoes the parameters a search actually ran with.
type SearchInfo struct {
	SequenceLength  int                    `json:"sequence_length"`
	Threshold       rank.Tier              `json:"threshold"`
	MaxResults      int                    `json:"max_results"`
	TagFilter       string                 `json:"tag_filter"`
	StructureFilter enzyme.StructureFilter `json:"structure_filter"`
}

// Response is the result of a search, or a failure when Success is false.
type Response struct {
	Success bool         `json:"success"`
	Results []rank.Match `json:"results"`

	// TotalCount is the number of results returned, after truncation.
	TotalCount int        `json:"total_count"`
	SearchInfo SearchInfo `json:"search_info"`
	Error      string     `json:"error,omitempty"`
}

// MarshalJSON renders failures as {"success":false,"error":...} only.
func (r Response) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{false, r.Error})
	}
	type plain Response
	return json.Marshal(plain(r))
}

// Failure shapes err as an unsuccessful response carrying no results.
func Failure(err error) *Response {
	return &Response{
		Success: false,
		Error:   errors.UserMessage(err),
	}
}

// IsInputError reports whether err was caused by the query itself rather
// than by the candidate source or the caller's context.
func IsInputError(err error) bool {
	return errors.IsAny(err,
		ErrEmptyInput,
		sequence.ErrTooShort,
		sequence.ErrInvalidFormat,
	)
}
