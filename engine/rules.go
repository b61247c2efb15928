package engine

// HouseRules holds configurable game rule settings.
type HouseRules struct {
	HandSize         uint8 // cards each player refills to after a round; 0 or >= 18 treated as 6
	MaxTableCards    uint8 // attack cards allowed per round; 0 treated as 6, capped at MaxTable
	LowestTrumpLeads bool  // if true, the holder of the lowest trump attacks first
}

// DefaultHouseRules returns the standard two-player Durak rules.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		HandSize:         6,
		MaxTableCards:    MaxTable,
		LowestTrumpLeads: true,
	}
}

func (r *HouseRules) handSize() int {
	if r.HandSize == 0 || r.HandSize >= DeckSize/2 {
		return 6
	}
	return int(r.HandSize)
}

func (r *HouseRules) maxTableCards() int {
	if r.MaxTableCards == 0 || r.MaxTableCards > MaxTable {
		return MaxTable
	}
	return int(r.MaxTableCards)
}
