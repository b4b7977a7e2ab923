package keywords

// stopWords holds common English filler plus resume and job-posting
// boilerplate that carries no signal for skill matching.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		// English filler
		"the", "and", "for", "are", "but", "not", "you", "all", "any", "can",
		"had", "her", "was", "one", "our", "out", "has", "have", "him", "his",
		"how", "its", "may", "new", "now", "old", "see", "two", "way", "who",
		"did", "get", "got", "let", "put", "say", "she", "too", "use", "used",
		"using", "with", "this", "that", "from", "they", "will", "would", "there",
		"their", "what", "about", "which", "when", "make", "like", "time", "just",
		"know", "take", "into", "year", "your", "some", "could", "them", "than",
		"then", "look", "only", "come", "over", "also", "back", "after", "work",
		"first", "well", "even", "want", "because", "these", "give", "most",
		"very", "been", "were", "being", "more", "such", "each", "other", "where",
		"while", "should", "must", "shall", "does", "doing", "done", "per", "via",
		"etc", "including", "include", "includes", "within", "across", "both",
		"between", "through", "during", "before", "under", "above", "below",
		"again", "further", "once", "here", "why", "own", "same", "few", "nor",
		"off", "yet", "ever", "every", "much", "many", "able", "upon", "onto",
		// resume and job-posting boilerplate
		"experience", "experienced", "years", "strong", "excellent", "good",
		"great", "skills", "skill", "ability", "knowledge", "understanding",
		"team", "teams", "working", "responsible", "responsibilities",
		"requirements", "required", "requirement", "preferred", "plus", "role",
		"position", "candidate", "candidates", "job", "company", "looking",
		"seeking", "join", "opportunity", "opportunities", "environment",
		"highly", "proven", "track", "record", "demonstrated", "related",
		"relevant", "various", "ideal", "successful",
		"minimum", "least", "qualifications", "qualification", "duties",
		"familiarity", "familiar", "proficiency", "proficient", "hands",
		"having", "extensively", "extensive", "solid", "deep",
	} {
		stopWords[w] = struct{}{}
	}
}

// IsStopWord reports whether word is excluded from keyword sets.
// word must already be lowercased.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}
