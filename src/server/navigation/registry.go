package navigation

import (
	"lsp-navigator/src/internal/registry"
	"lsp-navigator/src/server"
	"lsp-navigator/src/server/documents"
)

// NewDefaultRegistry registers a definition service for every known
// language. All services share resolver and therefore one external cache.
// A nil build keeps the placeholder items.
func NewDefaultRegistry(active server.ActiveServer, resolver *documents.Resolver, presenter Presenter, build ItemBuilder) (*registry.ServiceRegistry[*DefinitionService], error) {
	reg := registry.NewServiceRegistry[*DefinitionService]()
	for _, language := range registry.GetLanguageNames() {
		err := reg.Register(language, func(string) (*DefinitionService, error) {
			return NewDefinitionService(active, resolver, presenter).WithItemBuilder(build), nil
		})
		if err != nil {
			return nil, err
		}
	}
	return reg, nil
}
