package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-portal/internal/types"
)

func TestExplain_SkillOverlap(t *testing.T) {
	in := ExplainInput{
		JobTitle:    "Backend Engineer",
		JobSkills:   []string{"python", "fastapi", "postgresql"},
		QuerySkills: []string{"python", "fastapi"},
		BM25Raw:     3.0,
		Contributions: map[string]float64{
			"python": 2.0, "fastapi": 1.0,
		},
	}

	exps := Explain(in, DefaultVectorFloor)
	require.Len(t, exps, 2)
	labels := []string{exps[0].Label, exps[1].Label}
	assert.Contains(t, labels, "python")
	assert.Contains(t, labels, "fastapi")
	for _, e := range exps {
		assert.Equal(t, types.ExplanationSourceSkill, e.Source)
		assert.Equal(t, 1.0, e.Weight)
	}
}

func TestExplain_TitleMatch(t *testing.T) {
	in := ExplainInput{
		JobTitle:    "Senior Backend Engineer",
		QueryTitles: []string{"backend engineer"},
	}

	exps := Explain(in, DefaultVectorFloor)
	require.Len(t, exps, 1)
	assert.Equal(t, "backend engineer", exps[0].Label)
	assert.Equal(t, types.ExplanationSourceTitle, exps[0].Source)
	assert.Equal(t, 0.8, exps[0].Weight)
}

func TestExplain_TitleRequiresWordBoundary(t *testing.T) {
	in := ExplainInput{
		JobTitle:    "Frontend Engineering Lead",
		QueryTitles: []string{"backend engineer"},
	}
	assert.Empty(t, Explain(in, DefaultVectorFloor))
}

func TestExplain_TokenContributions(t *testing.T) {
	in := ExplainInput{
		JobTitle: "Data Analyst",
		BM25Raw:  4.0,
		Contributions: map[string]float64{
			"sql": 2.0, "tableau": 1.5, "reporting": 0.5,
		},
	}

	exps := Explain(in, DefaultVectorFloor)
	require.Len(t, exps, 3)
	assert.Equal(t, "sql", exps[0].Label)
	assert.InDelta(t, 0.5, exps[0].Weight, 1e-9)
	assert.Equal(t, "tableau", exps[1].Label)
	assert.InDelta(t, 0.375, exps[1].Weight, 1e-9)
	assert.Equal(t, "reporting", exps[2].Label)
	for _, e := range exps {
		assert.Equal(t, types.ExplanationSourceToken, e.Source)
	}
}

func TestExplain_TokenSkipsSkillAndTitleTerms(t *testing.T) {
	in := ExplainInput{
		JobTitle:    "Python Engineer",
		JobSkills:   []string{"python"},
		QuerySkills: []string{"python"},
		QueryTitles: []string{"engineer"},
		BM25Raw:     3.0,
		Contributions: map[string]float64{
			"python": 1.5, "engineer": 1.0, "django": 0.5,
		},
	}

	exps := Explain(in, DefaultVectorFloor)
	var tokenLabels []string
	for _, e := range exps {
		if e.Source == types.ExplanationSourceToken {
			tokenLabels = append(tokenLabels, e.Label)
		}
	}
	assert.Equal(t, []string{"django"}, tokenLabels)
}

func TestExplain_TokenCap(t *testing.T) {
	in := ExplainInput{
		BM25Raw: 7.0,
		Contributions: map[string]float64{
			"a": 1.0, "b": 1.1, "c": 1.2, "d": 1.3, "e": 1.4, "f": 1.5, "g": 0.5,
		},
	}

	exps := Explain(in, DefaultVectorFloor)
	assert.Len(t, exps, maxTokenExplanations)
	// The two weakest contributions fall off.
	for _, e := range exps {
		assert.NotEqual(t, "a", e.Label)
		assert.NotEqual(t, "g", e.Label)
	}
}

func TestExplain_VectorAboveFloor(t *testing.T) {
	in := ExplainInput{
		JobSkills:   []string{"go"},
		QuerySkills: []string{"go"},
		VectorScore: 0.82,
		HasVector:   true,
	}

	exps := Explain(in, DefaultVectorFloor)
	require.Len(t, exps, 2)
	assert.Equal(t, types.ExplanationSourceSkill, exps[0].Source)
	assert.Equal(t, "Semantic match", exps[1].Label)
	assert.InDelta(t, 0.82, exps[1].Weight, 1e-9)
	assert.Equal(t, types.ExplanationSourceVector, exps[1].Source)
}

func TestExplain_VectorBelowFloorSuppressed(t *testing.T) {
	in := ExplainInput{
		JobSkills:   []string{"go"},
		QuerySkills: []string{"go"},
		VectorScore: 0.3,
		HasVector:   true,
	}

	exps := Explain(in, DefaultVectorFloor)
	require.Len(t, exps, 1)
	assert.Equal(t, types.ExplanationSourceSkill, exps[0].Source)
}

func TestExplain_VectorFallbackWhenOnlySignal(t *testing.T) {
	// A job that scored purely on semantic similarity must still carry an
	// explanation even though its vector score sits below the floor.
	in := ExplainInput{
		JobTitle:    "Machine Learning Engineer",
		VectorScore: 0.42,
		HasVector:   true,
	}

	exps := Explain(in, DefaultVectorFloor)
	require.Len(t, exps, 1)
	assert.Equal(t, "Semantic match", exps[0].Label)
	assert.InDelta(t, 0.42, exps[0].Weight, 1e-9)
}

func TestExplain_DegradedRequestHasNoVectorChip(t *testing.T) {
	in := ExplainInput{
		JobSkills:   []string{"python"},
		QuerySkills: []string{"python"},
		VectorScore: 0,
		HasVector:   false,
	}

	exps := Explain(in, DefaultVectorFloor)
	require.Len(t, exps, 1)
	assert.Equal(t, types.ExplanationSourceSkill, exps[0].Source)
}

func TestExplain_SortedByWeightDescending(t *testing.T) {
	in := ExplainInput{
		JobTitle:    "Senior Python Engineer",
		JobSkills:   []string{"python"},
		QuerySkills: []string{"python"},
		QueryTitles: []string{"python engineer"},
		BM25Raw:     2.0,
		Contributions: map[string]float64{
			"senior": 0.4,
		},
		VectorScore: 0.9,
		HasVector:   true,
	}

	exps := Explain(in, DefaultVectorFloor)
	require.NotEmpty(t, exps)
	for i := 1; i < len(exps); i++ {
		assert.GreaterOrEqual(t, exps[i-1].Weight, exps[i].Weight)
	}
}

func TestExplain_WeightsWithinBounds(t *testing.T) {
	in := ExplainInput{
		JobTitle:    "Full Stack Developer",
		JobSkills:   []string{"javascript", "react"},
		QuerySkills: []string{"javascript", "react", "nodejs"},
		QueryTitles: []string{"developer"},
		BM25Raw:     0.3,
		Contributions: map[string]float64{
			// Contribution exceeding the raw total clamps to 1.
			"stack": 0.5,
		},
		VectorScore: 0.77,
		HasVector:   true,
	}

	exps := Explain(in, DefaultVectorFloor)
	require.NotEmpty(t, exps)
	for _, e := range exps {
		assert.GreaterOrEqual(t, e.Weight, 0.0)
		assert.LessOrEqual(t, e.Weight, 1.0)
	}
}
