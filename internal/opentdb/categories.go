package opentdb

// GeneralKnowledgeCategory is the fallback category for topic ids outside
// the fixed set.
const GeneralKnowledgeCategory = 9

var categoryByTopic = map[string]int{
	"science":    17,
	"history":    23,
	"geography":  22,
	"sports":     21,
	"movies":     11,
	"technology": 18,
}

// CategoryForTopic maps an app topic id to its Open Trivia DB category id.
// Unknown topics map to general knowledge rather than failing.
func CategoryForTopic(topicID string) int {
	if id, ok := categoryByTopic[topicID]; ok {
		return id
	}
	return GeneralKnowledgeCategory
}

// Topics returns the fixed set of selectable topic ids.
func Topics() []string {
	return []string{"science", "history", "geography", "sports", "movies", "technology"}
}
