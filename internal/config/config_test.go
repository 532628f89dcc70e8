package config

import (
	"strings"
	"testing"
	"time"

	"github.com/go-metaheuristics/tabumh/internal/controller"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesKnownGroups(t *testing.T) {
	doc, err := Load(strings.NewReader(`{
		"general": {"seed": 42, "iteration_max": 500},
		"penalty": {"initial_coefficient": 12.5},
		"tabu_search": {"initial_tabu_tenure": 9}
	}`))
	require.NoError(t, err)
	require.NotNil(t, doc.General)
	require.Equal(t, int64(42), *doc.General.Seed)
	require.Equal(t, 500, *doc.General.IterationMax)
	require.Equal(t, 12.5, *doc.Penalty.InitialCoefficient)
	require.Equal(t, int64(9), *doc.TabuSearch.InitialTabuTenure)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	_, err := Load(strings.NewReader(`{not json`))
	require.Error(t, err)
}

func TestApplyOverlaysGeneralGroupOntoDefaults(t *testing.T) {
	base := controller.DefaultOptions()
	seed := int64(99)
	timeMax := 12.0
	doc := Document{General: &General{Seed: &seed, TimeMaxSeconds: &timeMax}}

	opt, err := Apply(base, doc)
	require.NoError(t, err)
	require.Equal(t, int64(99), opt.Seed)
	require.Equal(t, 12*time.Second, opt.OuterTimeMax)
	require.Equal(t, base.OuterIterationMax, opt.OuterIterationMax)
}

func TestApplyRebuildsTabuVariantSpreadFromTabuSearchGroup(t *testing.T) {
	base := controller.DefaultOptions()
	tenure := int64(20)
	doc := Document{TabuSearch: &TabuSearch{InitialTabuTenure: &tenure}}

	opt, err := Apply(base, doc)
	require.NoError(t, err)
	require.Len(t, opt.TabuVariants, 3)
	require.Equal(t, int64(20), opt.TabuVariants[1].InitialTabuTenure)
	require.Less(t, opt.TabuVariants[0].InitialTabuTenure, opt.TabuVariants[1].InitialTabuTenure)
	require.Greater(t, opt.TabuVariants[2].InitialTabuTenure, opt.TabuVariants[1].InitialTabuTenure)
}

func TestApplyRejectsUnknownScreeningMode(t *testing.T) {
	base := controller.DefaultOptions()
	mode := "ludicrous"
	doc := Document{General: &General{Screening: &mode}}

	_, err := Apply(base, doc)
	require.Error(t, err)
}

func TestApplyRejectsUnknownTabuMode(t *testing.T) {
	base := controller.DefaultOptions()
	mode := "sideways"
	doc := Document{TabuSearch: &TabuSearch{TabuMode: &mode}}

	_, err := Apply(base, doc)
	require.Error(t, err)
}
