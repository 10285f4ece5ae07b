package pricing

import (
	"testing"
	"time"

	"github.com/mayastay/booking-api/internal/model"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNights(t *testing.T) {
	cases := []struct {
		in, out string
		want    int
	}{
		{"2024-06-01", "2024-06-04", 3},
		{"2024-06-01", "2024-06-02", 1},
		{"2024-06-01", "2024-06-01", 0},
		{"2024-06-04", "2024-06-01", -3},
		{"2024-12-30", "2025-01-02", 3},
	}
	for _, c := range cases {
		if got := Nights(date(c.in), date(c.out)); got != c.want {
			t.Errorf("Nights(%s, %s) = %d, want %d", c.in, c.out, got, c.want)
		}
	}
}

func TestTotal(t *testing.T) {
	cases := []struct {
		name   string
		rate   int64
		nights int
		rooms  int
		addons []model.AddonService
		want   int64
	}{
		{"base only", 10000, 3, 2, nil, 60000},
		{"with addon", 10000, 3, 2, []model.AddonService{{Name: "breakfast", PriceCents: 2000}}, 62000},
		{"multiple addons", 5000, 1, 1, []model.AddonService{
			{Name: "breakfast", PriceCents: 2000},
			{Name: "parking", PriceCents: 1500},
		}, 8500},
		{"negative addon ignored", 5000, 1, 1, []model.AddonService{{Name: "bogus", PriceCents: -300}}, 5000},
		{"zero-price addon ignored", 5000, 1, 1, []model.AddonService{{Name: "empty"}}, 5000},
		{"free listing", 0, 2, 1, nil, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Total(c.rate, c.nights, c.rooms, c.addons)
			if err != nil {
				t.Fatalf("Total returned error: %v", err)
			}
			if got != c.want {
				t.Errorf("Total = %d, want %d", got, c.want)
			}
			if got < 0 {
				t.Errorf("Total = %d, must never be negative", got)
			}
		})
	}
}

func TestTotalInvalidInput(t *testing.T) {
	cases := []struct {
		name   string
		rate   int64
		nights int
		rooms  int
	}{
		{"negative rate", -1, 1, 1},
		{"zero nights", 100, 0, 1},
		{"zero rooms", 100, 1, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Total(c.rate, c.nights, c.rooms, nil); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
