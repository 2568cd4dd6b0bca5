package sim

// Outcome classifies the replies to one query.
type Outcome int

const (
	// Idle: no tag replied.
	Idle Outcome = iota
	// Success: exactly one tag replied and is now identified.
	Success
	// Collision: two or more tags replied at once.
	Collision
)

func (o Outcome) String() string {
	switch o {
	case Idle:
		return "idle"
	case Success:
		return "success"
	case Collision:
		return "collision"
	default:
		return "unknown"
	}
}

// Query simulates one reader broadcast of prefix p: every tag whose
// identifier starts with p replies. The response keeps population order.
// Query has no side effects and is recomputed on every call.
func Query(p Prefix, pop *Population) []Identifier {
	var response []Identifier
	for _, id := range pop.ids {
		if id.HasPrefix(p) {
			response = append(response, id)
		}
	}
	return response
}

// Classify maps a response to its Outcome.
func Classify(response []Identifier) Outcome {
	switch len(response) {
	case 0:
		return Idle
	case 1:
		return Success
	default:
		return Collision
	}
}
