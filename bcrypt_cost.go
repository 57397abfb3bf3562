//go:build !race

package hikeusers

// DefaultBcryptCost is the work factor used when no explicit cost is
// configured. High enough for production credentials.
const DefaultBcryptCost = 12

func passwordHashCost() int {
	return DefaultBcryptCost
}
