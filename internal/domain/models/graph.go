package models

// ParticipantNode is one conversation participant in the reply graph
type ParticipantNode struct {
	UserID       string  `json:"user_id"`
	Username     string  `json:"username,omitempty"`
	MessageCount int     `json:"message_count"`
	Influence    float64 `json:"influence"` // share of total messages, 0-100
}

// ReplyEdge is a directed reply relationship: From replied to To Weight times
type ReplyEdge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Weight int    `json:"weight"`
}

// ConversationGraph is the reply graph for one analysis pass.
// Built once per pass; never incrementally updated.
type ConversationGraph struct {
	Nodes         []ParticipantNode `json:"nodes"`
	Edges         []ReplyEdge       `json:"edges"`
	TotalMessages int               `json:"total_messages"`
	CentralNodes  []string          `json:"central_nodes,omitempty"`  // top-5 user IDs by influence
	IsolatedNodes []string          `json:"isolated_nodes,omitempty"` // silent, unconnected participants
}

// Node returns the node for a user ID, if present
func (g *ConversationGraph) Node(userID string) (ParticipantNode, bool) {
	for _, n := range g.Nodes {
		if n.UserID == userID {
			return n, true
		}
	}
	return ParticipantNode{}, false
}
