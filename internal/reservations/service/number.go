package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"otabridge/internal/reservations/repository"
)

// ReservationNoPrefix is the sequence namespace shared with records
// keyed in manually through the property system.
const ReservationNoPrefix = "R/"

// NumberGenerator allocates human-readable reservation numbers by
// scanning the store for the highest assigned suffix and incrementing
// it. The mutex serializes allocation within the process; the store
// carries no counter document so concurrent processes would need a
// different scheme.
type NumberGenerator struct {
	repo repository.ReservationRepository
	mu   sync.Mutex
}

func NewNumberGenerator(repo repository.ReservationRepository) *NumberGenerator {
	return &NumberGenerator{repo: repo}
}

// Next returns the next free number, formatted R/NNNNN. Numbers with a
// malformed suffix are skipped rather than failing the allocation.
func (g *NumberGenerator) Next(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	numbers, err := g.repo.ListReservationNumbers(ctx, ReservationNoPrefix)
	if err != nil {
		return "", err
	}

	highest := 0
	for _, number := range numbers {
		idx := strings.LastIndex(number, "/")
		if idx < 0 {
			continue
		}
		suffix, err := strconv.Atoi(number[idx+1:])
		if err != nil {
			continue
		}
		if suffix > highest {
			highest = suffix
		}
	}

	return fmt.Sprintf("%s%05d", ReservationNoPrefix, highest+1), nil
}
