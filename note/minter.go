package note

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/HelixTeam/helieco/types"
)

// Mint produces the stacks for count freshly issued notes of the given
// per-note value, chunked to maxStackSize units per stack (the last stack
// possibly partial). The caller places the stacks and routes any overflow.
func Mint(account *types.Account, value decimal.Decimal, count int, maxStackSize int, denomination string, expireDate string) []*types.Stack {
	if count <= 0 {
		return nil
	}

	if maxStackSize <= 0 {
		maxStackSize = 1
	}

	template := types.NewStack(0, maxStackSize)
	n := &types.Note{
		AccountID:    account.ID,
		Value:        value,
		IssueDate:    time.Now().Format(types.DateLayout),
		ExpireDate:   expireDate,
		Denomination: denomination,
	}

	Encode(n, template)
	Label(template, account.Name, n)

	stacks := make([]*types.Stack, 0, (count+maxStackSize-1)/maxStackSize)

	remaining := count
	for remaining > 0 {
		take := remaining
		if take > maxStackSize {
			take = maxStackSize
		}

		stack := template.Clone()
		stack.Size = take
		stacks = append(stacks, stack)

		remaining -= take
	}

	return stacks
}
