// Package note encodes ledger notes into transferable token stacks and
// mints new ones. Metadata lives under helieco_note_* keys so unrelated
// token metadata can never collide with it.
package note

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/HelixTeam/helieco/types"
)

const (
	MetaAccount      = "helieco_note_account"
	MetaValue        = "helieco_note_value"
	MetaIssueDate    = "helieco_note_issue"
	MetaExpireDate   = "helieco_note_expire"
	MetaDenomination = "helieco_note_denom"
)

// Encode writes the note's fields into the stack's metadata. No unique
// serial is written: equal notes must stay fungible and stackable.
func Encode(n *types.Note, stack *types.Stack) {
	stack.DataMutex.Lock()
	defer stack.DataMutex.Unlock()

	if stack.Meta == nil {
		stack.Meta = make(map[string]string)
	}

	stack.Meta[MetaAccount] = n.AccountID
	// Plain decimal string, so the value survives save/load cycles exactly.
	stack.Meta[MetaValue] = n.Value.String()
	stack.Meta[MetaIssueDate] = n.IssueDate
	stack.Meta[MetaExpireDate] = n.ExpireDate
	stack.Meta[MetaDenomination] = n.Denomination
}

// Decode reads a note back out of a stack. Returns nil when the stack does
// not carry note metadata; an unparsable value decodes as zero.
func Decode(stack *types.Stack) *types.Note {
	if stack == nil {
		return nil
	}

	meta := stack.MetaSnapshot()

	accountID, found := meta[MetaAccount]
	if !found {
		return nil
	}

	value := decimal.Zero
	if text, found := meta[MetaValue]; found {
		parsed, err := decimal.NewFromString(text)
		if err == nil {
			value = parsed
		}
	}

	return &types.Note{
		AccountID:    accountID,
		Value:        value,
		IssueDate:    meta[MetaIssueDate],
		ExpireDate:   meta[MetaExpireDate],
		Denomination: meta[MetaDenomination],
	}
}

// Label rewrites the stack's human-readable display from the note and the
// issuing account's name.
func Label(stack *types.Stack, issuerName string, n *types.Note) {
	if issuerName == "" {
		issuerName = "Land"
	}

	issuer := issuerName
	if issuer == "Land" {
		issuer = "-"
	}

	lore := []string{
		"Issuer: " + issuer,
		"Value: " + prettyValue(n.Value),
	}
	if n.ExpireDate != "" {
		lore = append(lore, "Expires: "+n.ExpireDate)
	}

	stack.DataMutex.Lock()
	stack.Name = issuerName
	stack.Lore = lore
	stack.DataMutex.Unlock()
}

func prettyValue(value decimal.Decimal) string {
	text := value.String()
	if strings.Contains(text, ".") {
		text = strings.TrimRight(text, "0")
		text = strings.TrimSuffix(text, ".")
	}

	if text == "" || text == "-" {
		return "0"
	}

	return text
}
