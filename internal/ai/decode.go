package ai

import (
	"encoding/json"
	"fmt"

	"github.com/maazahmad/spendtrace/internal/domain"
)

// intentEnvelope mirrors the JSON the analysis model emits. Exactly one of
// the payload fields is expected for the side-effecting intents; the router
// tolerates a missing one.
type intentEnvelope struct {
	Intent string              `json:"intent"`
	Data   *domain.LogData     `json:"data"`
	Query  *domain.QueryFilter `json:"query"`
	Edit   *domain.EditRequest `json:"edit"`
}

// decodeIntent parses cleaned model output into a domain intent. An unknown
// intent string degrades to UNRECOGNIZED rather than failing: the model's
// classification is trusted but never load-bearing for correctness.
func decodeIntent(raw string) (domain.Intent, error) {
	var env intentEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return domain.Intent{}, fmt.Errorf("unmarshal intent JSON: %w", err)
	}

	switch domain.IntentKind(env.Intent) {
	case domain.IntentLogExpense:
		return domain.Intent{Kind: domain.IntentLogExpense, Log: env.Data}, nil
	case domain.IntentQuerySpending:
		return domain.Intent{Kind: domain.IntentQuerySpending, Query: env.Query}, nil
	case domain.IntentEditExpense:
		return domain.Intent{Kind: domain.IntentEditExpense, Edit: env.Edit}, nil
	case domain.IntentUndoLast:
		return domain.Intent{Kind: domain.IntentUndoLast}, nil
	default:
		return domain.Intent{Kind: domain.IntentUnrecognized}, nil
	}
}
