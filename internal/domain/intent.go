package domain

// IntentKind is the classified purpose of a user message, produced by the
// analysis model from transcribed text.
type IntentKind string

const (
	IntentLogExpense    IntentKind = "LOG_EXPENSE"
	IntentQuerySpending IntentKind = "QUERY_SPENDING"
	IntentEditExpense   IntentKind = "EDIT_EXPENSE"
	IntentUndoLast      IntentKind = "UNDO_LAST"
	IntentUnrecognized  IntentKind = "UNRECOGNIZED"
)

// LastMatch is the sentinel target date meaning "ignore the date filter and
// edit the most recently appended matching row".
const LastMatch = "LAST_MATCH"

// Date filter tokens resolved against the current date at query time.
const (
	DateToday        = "TODAY"
	DateSevenDaysAgo = "7_DAYS_AGO"
)

// Intent is a tagged variant: exactly one of Log/Query/Edit is populated,
// depending on Kind. The model's classification is trusted; field presence
// is validated by the router before acting.
type Intent struct {
	Kind  IntentKind
	Log   *LogData
	Query *QueryFilter
	Edit  *EditRequest
}

// LogData carries the fields of a LOG_EXPENSE intent. Empty strings and a
// zero amount are allowed; the router substitutes defaults.
type LogData struct {
	Date     string  `json:"date"`
	Item     string  `json:"item"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Merchant string  `json:"merchant"`
	Category string  `json:"category"`
}

// QueryFilter carries the five filter fields of a QUERY_SPENDING intent.
// A filter is inactive when empty or the literal token "null". Date bounds
// may be literal YYYY-MM-DD dates or the TODAY / 7_DAYS_AGO tokens.
type QueryFilter struct {
	Category  string `json:"category"`
	Merchant  string `json:"merchant"`
	Item      string `json:"item"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// EditRequest carries the fields of an EDIT_EXPENSE intent. TargetDate may be
// the LastMatch sentinel.
type EditRequest struct {
	TargetItem  string  `json:"target_item"`
	TargetDate  string  `json:"target_date"`
	NewAmount   float64 `json:"new_amount"`
	NewCurrency string  `json:"new_currency"`
}
