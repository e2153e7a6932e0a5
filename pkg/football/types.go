package football

// Team is a club returned by team search.
type Team struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Logo    string `json:"logo"`
	Country string `json:"country,omitempty"`
}

// Player is a squad member.
type Player struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Number   int    `json:"number"`
	Age      int    `json:"age"`
	Photo    string `json:"photo"`
}

// envelope is the common API-Football response wrapper.
type envelope[T any] struct {
	Response T `json:"response"`
}

type teamEntry struct {
	Team struct {
		ID      int    `json:"id"`
		Name    string `json:"name"`
		Logo    string `json:"logo"`
		Country string `json:"country"`
	} `json:"team"`
	Venue *struct {
		City string `json:"city"`
	} `json:"venue"`
}

type squadEntry struct {
	Players []struct {
		ID       int    `json:"id"`
		Name     string `json:"name"`
		Position string `json:"position"`
		Number   *int   `json:"number"`
		Age      *int   `json:"age"`
		Photo    string `json:"photo"`
	} `json:"players"`
}
