package ranking

import (
	"sort"

	"github.com/jonathan/job-portal/internal/normalize"
	"github.com/jonathan/job-portal/internal/types"
)

// Fixed explanation weights for exact overlaps. A verbatim skill match is
// the strongest signal we can show a seeker; a title overlap is close.
const (
	skillExplanationWeight = 1.0
	titleExplanationWeight = 0.8
)

// DefaultVectorFloor is the vector score below which no standalone
// "Semantic match" chip is emitted.
const DefaultVectorFloor = 0.5

// maxTokenExplanations caps how many per-term chips one result carries.
const maxTokenExplanations = 5

// ExplainInput is everything the generator needs for one ranked job.
type ExplainInput struct {
	JobTitle  string
	JobSkills []string // normalized

	QuerySkills []string // normalized seeker skills, empty in search mode
	QueryTitles []string // normalized seeker titles, empty in search mode

	BM25Raw       float64
	Contributions map[string]float64 // per-term raw BM25 contributions

	VectorScore float64 // normalized [0,1]
	HasVector   bool    // false when the request degraded to lexical-only
}

// Explain derives the ranked explanation list for one result, highest weight
// first. The full set is returned; the caller truncates for display. Every
// weight lies in [0,1], and any result that scored above zero receives at
// least one explanation.
func Explain(in ExplainInput, vectorFloor float64) []types.Explanation {
	if vectorFloor <= 0 {
		vectorFloor = DefaultVectorFloor
	}

	var explanations []types.Explanation

	// Verbatim skill overlap.
	jobSkills := make(map[string]bool, len(in.JobSkills))
	for _, s := range in.JobSkills {
		jobSkills[s] = true
	}
	matchedSkillTokens := make(map[string]bool)
	for _, skill := range in.QuerySkills {
		if jobSkills[skill] {
			explanations = append(explanations, types.Explanation{
				Label:  skill,
				Weight: skillExplanationWeight,
				Source: types.ExplanationSourceSkill,
			})
			for _, tok := range normalize.Tokenize(skill) {
				matchedSkillTokens[tok] = true
			}
		}
	}

	// Seeker titles contained in the job title.
	jobTitle := normalize.Title(in.JobTitle)
	titleTokens := make(map[string]bool)
	for _, tok := range normalize.Tokenize(jobTitle) {
		titleTokens[tok] = true
	}
	for _, title := range in.QueryTitles {
		if title != "" && containsPhrase(jobTitle, title) {
			explanations = append(explanations, types.Explanation{
				Label:  title,
				Weight: titleExplanationWeight,
				Source: types.ExplanationSourceTitle,
			})
		}
	}

	// Remaining lexical term contributions, strongest first. Terms already
	// surfaced through a skill or title chip are skipped.
	if in.BM25Raw > 0 {
		type termContrib struct {
			term   string
			weight float64
		}
		contribs := make([]termContrib, 0, len(in.Contributions))
		for term, c := range in.Contributions {
			if matchedSkillTokens[term] || titleTokens[term] {
				continue
			}
			weight := c / in.BM25Raw
			if weight > 1 {
				weight = 1
			}
			if weight > 0 {
				contribs = append(contribs, termContrib{term: term, weight: weight})
			}
		}
		sort.Slice(contribs, func(i, j int) bool {
			if contribs[i].weight != contribs[j].weight {
				return contribs[i].weight > contribs[j].weight
			}
			return contribs[i].term < contribs[j].term
		})
		if len(contribs) > maxTokenExplanations {
			contribs = contribs[:maxTokenExplanations]
		}
		for _, tc := range contribs {
			explanations = append(explanations, types.Explanation{
				Label:  tc.term,
				Weight: tc.weight,
				Source: types.ExplanationSourceToken,
			})
		}
	}

	// Semantic chip: emitted when the vector signal is strong, or as a
	// fallback so a result that scored purely on vector similarity is never
	// left unjustified.
	if in.HasVector && in.VectorScore > 0 && (in.VectorScore >= vectorFloor || len(explanations) == 0) {
		explanations = append(explanations, types.Explanation{
			Label:  "Semantic match",
			Weight: in.VectorScore,
			Source: types.ExplanationSourceVector,
		})
	}

	sort.SliceStable(explanations, func(i, j int) bool {
		return explanations[i].Weight > explanations[j].Weight
	})

	return explanations
}

// containsPhrase reports whether phrase occurs in text on word boundaries.
func containsPhrase(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	textTokens := normalize.Tokenize(text)
	phraseTokens := normalize.Tokenize(phrase)
	if len(phraseTokens) == 0 || len(phraseTokens) > len(textTokens) {
		return false
	}
	for i := 0; i+len(phraseTokens) <= len(textTokens); i++ {
		match := true
		for j, pt := range phraseTokens {
			if textTokens[i+j] != pt {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
