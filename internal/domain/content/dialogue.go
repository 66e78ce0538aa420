package content

import (
	"github.com/wyrmgate/engine/internal/domain/shared"
	"github.com/wyrmgate/engine/internal/errors"
)

// DialogueChoice is one selectable response. A nil TargetNode ends the
// conversation.
type DialogueChoice struct {
	Text       string          `json:"text"`
	TargetNode *shared.NodeID  `json:"target_node,omitempty"`
	GrantQuest *shared.QuestID `json:"grant_quest,omitempty"`
}

// DialogueNode is one screen of NPC text with its choices. A node with
// no choices ends the conversation after display.
type DialogueNode struct {
	ID      shared.NodeID    `json:"id"`
	Text    string           `json:"text"`
	Choices []DialogueChoice `json:"choices,omitempty"`
}

// Dialogue is a conversation tree. Nodes keep authoring order so
// traversal and validation stay deterministic.
type Dialogue struct {
	ID              shared.DialogueID `json:"id"`
	Name            string            `json:"name"`
	RootNode        shared.NodeID     `json:"root_node"`
	Nodes           []DialogueNode    `json:"nodes"`
	Repeatable      bool              `json:"repeatable,omitempty"`
	AssociatedQuest *shared.QuestID   `json:"associated_quest,omitempty"`
}

// Node returns the node with the given id, or nil.
func (d *Dialogue) Node(id shared.NodeID) *DialogueNode {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i]
		}
	}
	return nil
}

// Validate checks that the root node exists, node ids are unique, and
// every choice targets an existing node.
func (d *Dialogue) Validate() error {
	if len(d.Nodes) == 0 {
		return errors.Validationf("dialogue %q has no nodes", d.ID)
	}
	seen := make(map[shared.NodeID]bool, len(d.Nodes))
	for i := range d.Nodes {
		if seen[d.Nodes[i].ID] {
			return errors.Validationf("dialogue %q has duplicate node %q", d.ID, d.Nodes[i].ID)
		}
		seen[d.Nodes[i].ID] = true
	}
	if !seen[d.RootNode] {
		return errors.Validationf("dialogue %q root node %q not found", d.ID, d.RootNode)
	}
	for i := range d.Nodes {
		node := &d.Nodes[i]
		for j := range node.Choices {
			target := node.Choices[j].TargetNode
			if target != nil && !seen[*target] {
				return errors.Validationf("dialogue %q node %q choice targets missing node %q",
					d.ID, node.ID, *target)
			}
		}
	}
	return nil
}
