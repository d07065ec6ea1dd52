package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric names.
const (
	MetricEncountersStarted = "rpg_encounters_started_total"
	MetricEncounterOutcomes = "rpg_encounter_outcomes_total"
	MetricActions           = "rpg_actions_total"
	MetricRejections        = "rpg_rejections_total"
	MetricLootDrops         = "rpg_loot_drops_total"
	MetricLevelUps          = "rpg_level_ups_total"
	MetricActiveEncounters  = "rpg_active_encounters"
	MetricCharactersCreated = "rpg_characters_created_total"
)

// Label names.
const (
	LabelOutcome = "outcome"
	LabelAction  = "action"
	LabelKind    = "kind"
	LabelRarity  = "rarity"
	LabelClass   = "class"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	EncountersStarted prometheus.Counter
	EncounterOutcomes *prometheus.CounterVec
	Actions           *prometheus.CounterVec
	Rejections        *prometheus.CounterVec
	LootDrops         *prometheus.CounterVec
	LevelUps          prometheus.Counter
	ActiveEncounters  prometheus.Gauge
	CharactersCreated *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
//
// Precondition: reg must not already hold collectors with these names.
// Postcondition: Every collector is registered and starts at zero.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EncountersStarted: f.NewCounter(prometheus.CounterOpts{
			Name: MetricEncountersStarted,
			Help: "Encounters opened.",
		}),
		EncounterOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: MetricEncounterOutcomes,
			Help: "Encounters ended, by outcome.",
		}, []string{LabelOutcome}),
		Actions: f.NewCounterVec(prometheus.CounterOpts{
			Name: MetricActions,
			Help: "Combat actions resolved, by action type.",
		}, []string{LabelAction}),
		Rejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: MetricRejections,
			Help: "Requests rejected, by error kind.",
		}, []string{LabelKind}),
		LootDrops: f.NewCounterVec(prometheus.CounterOpts{
			Name: MetricLootDrops,
			Help: "Items dropped by defeated monsters, by rarity.",
		}, []string{LabelRarity}),
		LevelUps: f.NewCounter(prometheus.CounterOpts{
			Name: MetricLevelUps,
			Help: "Levels gained by characters.",
		}),
		ActiveEncounters: f.NewGauge(prometheus.GaugeOpts{
			Name: MetricActiveEncounters,
			Help: "Encounters currently ongoing.",
		}),
		CharactersCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: MetricCharactersCreated,
			Help: "Characters created, by class.",
		}, []string{LabelClass}),
	}
}

// NopMetrics returns Metrics registered with a private registry, for callers
// that do not export metrics.
func NopMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
