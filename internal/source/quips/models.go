package quips

// Record is one element of the upstream feed array. Every field is
// optional on the wire; absent fields stay nil and reach the store as NULL.
type Record struct {
	ID     *string `json:"id"`
	URL    *string `json:"url"`
	Name   *string `json:"name"`
	Title  *string `json:"title"`
	Image  *string `json:"image"`
	Video  *string `json:"video"`
	User   *string `json:"user"`
	Poster *string `json:"poster"`
	Script *string `json:"script"`
	Views  *int    `json:"views"`
}
