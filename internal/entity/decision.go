package entity

// Decision is a searched move for a side together with its minimax score.
type Decision struct {
	Size   int    `json:"size"`
	Board  Key    `json:"board"`
	Player string `json:"player"`
	Move   Move   `json:"move"`
	Score  int    `json:"score"`
}
