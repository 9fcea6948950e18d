package core

import "farmcore/pkg/domain"

// NewDefaultRulesEngine builds a rules engine with the built-in advisory set.
// Every built-in rule is warn or log severity; writes are never blocked.
func NewDefaultRulesEngine() *RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(OrphanedAnimalReferencesRule())
	engine.Register(LowStockRule())
	return engine
}
