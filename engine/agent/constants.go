package agent

import engine "github.com/rsaeta/durak/engine"

const (
	NumPlayers = engine.NumPlayers
	NumCards   = engine.DeckSize // 36
	MaxTable   = engine.MaxTable // 6
	NumActions = int(engine.NumActions)
)

// Feature offsets into the encoded observation.
const (
	OffViewer      = 0
	OffActing      = OffViewer + NumPlayers         // 2
	OffHand        = OffActing + NumPlayers         // 4
	OffAttack      = OffHand + NumCards             // 40
	OffDefense     = OffAttack + MaxTable*NumCards  // 256
	OffDiscard     = OffDefense + MaxTable*NumCards // 472
	OffDeckSize    = OffDiscard + NumCards          // 508
	OffTrump       = OffDeckSize + 1                // 509
	OffTaken       = OffTrump + NumCards            // 545
	OffDefender    = OffTaken + 1                   // 546
	OffOppHandSize = OffDefender + NumPlayers       // 548
	InputDim       = OffOppHandSize + 1             // 549
)

// StateShape returns the shape of the encoded observation tensor.
func StateShape() []int { return []int{InputDim} }
