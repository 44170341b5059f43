package gatewaytest

import (
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/gateway"
	"github.com/BruksfildServices01/barber-booking/internal/hub"
	"github.com/BruksfildServices01/barber-booking/internal/mirror"
)

// Env is a gateway over a FlakyStore with an in-memory mirror.
type Env struct {
	Store   *FlakyStore
	Hub     *hub.Hub
	Mirror  *mirror.Store
	Gateway *gateway.Gateway
}

// NewEnv builds an Env seeded with one service, two professionals and a
// Monday-to-Saturday config. The breaker is set high enough that tests
// never trip it by accident.
func NewEnv() *Env {
	store := NewFlakyStore()
	SeedCatalog(store)

	h := hub.New(zerolog.Nop(), nil)
	m := mirror.New(mirror.NewMemoryBackend(), h, zerolog.Nop(), nil)
	gw := gateway.New(store, m, zerolog.Nop(), nil, gateway.BreakerSettings{
		ConsecutiveFailures: 1000,
	})

	return &Env{Store: store, Hub: h, Mirror: m, Gateway: gw}
}

func SeedCatalog(store *FlakyStore) {
	store.Seed(gateway.TableServices,
		gateway.Row{"id": "svc-corte", "name": "Corte", "price": "45.00", "duration": 30, "image": "services/corte.webp"},
		gateway.Row{"id": "svc-barba", "name": "Barba", "price": 30, "duration": "20", "category": "Barba", "tag_name": "Promo"},
	)
	store.Seed(gateway.TableProfessionals,
		gateway.Row{"id": "pro-joao", "name": "João", "role": "Barbeiro", "rating": 4.9, "avatar": "pros/joao.png"},
		gateway.Row{"id": "pro-lia", "name": "Lia", "role": "Barbeira", "rating": "4.7"},
	)
	store.Seed(gateway.TableConfig,
		gateway.Row{"id": 1, "app_name": "Barbearia", "opening_hours": "09:00-18:00", "is_open": true},
	)
}
