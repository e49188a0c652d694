package assistant

import (
	"time"

	"github.com/google/uuid"
)

// SearchType records which retrieval strategy produced a result set.
type SearchType string

const (
	// SearchSemantic means rows came from the similarity-search capability.
	SearchSemantic SearchType = "semantic"

	// SearchBasic means rows came from the filtered lexical query.
	SearchBasic SearchType = "basic"

	// SearchContextual means rows were reused from the previous turn.
	SearchContextual SearchType = "contextual"
)

// RecordRow is one expense receipt as surfaced to the caller.
// Rows are owned by the record store; the pipeline treats them as read-only.
type RecordRow struct {
	// ID uniquely identifies the receipt.
	ID string `json:"id"`

	// Date is the purchase date.
	Date time.Time `json:"date"`

	// Amount is the receipt total.
	Amount float64 `json:"amount"`

	// VendorName is the resolved vendor display name.
	VendorName string `json:"vendorName"`

	// VendorCategory is the vendor's spending category, if known.
	VendorCategory string `json:"vendorCategory,omitempty"`
}

// ResultSet is the outcome of one retrieval: the matching rows, their summed
// amount, and the strategy that produced them. TotalAmount is always recomputed
// from the rows, never carried over from a cached value.
type ResultSet struct {
	Rows        []RecordRow `json:"rows"`
	TotalAmount float64     `json:"totalAmount"`
	SearchType  SearchType  `json:"searchType"`
}

// NewResultSet builds a ResultSet with TotalAmount summed from the rows.
func NewResultSet(rows []RecordRow, searchType SearchType) ResultSet {
	var total float64
	for _, r := range rows {
		total += r.Amount
	}
	return ResultSet{Rows: rows, TotalAmount: total, SearchType: searchType}
}

// DateRange is a resolved temporal constraint with its human description.
type DateRange struct {
	Start       time.Time
	End         time.Time
	Description string
}

// ResolvedFilter is the immutable set of constraints derived from one turn.
// All fields are optional; absence means unconstrained.
type ResolvedFilter struct {
	DateStart       *time.Time
	DateEnd         *time.Time
	VendorTerm      string
	MinAmount       *float64
	DateDescription string
}

// PartialFilter carries caller-supplied (UI) filter values on a request.
type PartialFilter struct {
	DateStart *time.Time `json:"dateStart,omitempty"`
	DateEnd   *time.Time `json:"dateEnd,omitempty"`
	Vendor    string     `json:"vendor,omitempty"`
	MinAmount *float64   `json:"minAmount,omitempty"`
}

// ConversationTurn is the full input for one request. It exists only for the
// duration of the request; the service keeps no state between turns. The
// previous turn's result set, if any, is supplied by the caller.
type ConversationTurn struct {
	// Message is the user's free-text input.
	Message string

	// TenantID scopes every store read to one tenant.
	TenantID string

	// PriorResults is the previous turn's result set, echoed back by the caller.
	PriorResults *ResultSet

	// CallerFilters are explicit UI filters supplied alongside the message.
	CallerFilters *PartialFilter
}

// Reply is the outcome of one turn. ResultSet becomes the next turn's
// PriorResults when the caller echoes it back.
type Reply struct {
	Text      string
	ResultSet ResultSet
}

// StoredReceipt is a raw receipt row as returned by the record store, before
// vendor names are resolved.
type StoredReceipt struct {
	ID       string
	Date     time.Time
	Total    float64
	VendorID string
}

// Vendor is a vendor directory entry.
type Vendor struct {
	ID       string
	Name     string
	Category string
}

// ScoredReceipt is a semantic search hit: a fully resolved row plus its
// similarity to the query.
type ScoredReceipt struct {
	Row        RecordRow
	Similarity float64
}

// ReceiptQuery constrains a lexical receipt fetch. Date bounds are inclusive.
type ReceiptQuery struct {
	DateStart *time.Time
	DateEnd   *time.Time
	MinTotal  *float64
	Limit     int
}

// ChatHTTPRequest is the HTTP request body for chat.
type ChatHTTPRequest struct {
	Message        string       `json:"message"`
	ConversationID string       `json:"conversationId,omitempty"`
	Context        *ChatContext `json:"context,omitempty"`
}

// ChatContext is caller-supplied per-request context.
type ChatContext struct {
	TenantID    string         `json:"tenantId,omitempty"`
	Filters     *PartialFilter `json:"filters,omitempty"`
	LastContext *LastContext   `json:"lastContext,omitempty"`
}

// LastContext echoes the previous turn's result set back to the service.
type LastContext struct {
	RelevantReceipts []RecordRow `json:"relevantReceipts"`
	SearchType       string      `json:"searchType,omitempty"`
}

// ChatHTTPResponse is the HTTP response body for chat.
type ChatHTTPResponse struct {
	Message        AssistantMessage `json:"message"`
	ConversationID string           `json:"conversationId"`
	Context        ResponseContext  `json:"context"`
}

// AssistantMessage is the assistant's reply envelope.
type AssistantMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ResponseContext carries the result set forward so the client can echo it
// back as lastContext on the next turn.
type ResponseContext struct {
	SearchResults    *string     `json:"searchResults"`
	RelevantReceipts []RecordRow `json:"relevantReceipts"`
	SearchType       string      `json:"searchType"`
}

// HealthResponse is the health probe payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// NewConversationID generates a new conversation ID.
func NewConversationID() string {
	return uuid.New().String()
}

// NewMessageID generates a new message ID.
func NewMessageID() string {
	return uuid.New().String()
}
