package geo

import "testing"

func TestHaversineKm(t *testing.T) {
	// Berlin (52.52, 13.405) to Hamburg (53.5511, 9.9937) ~ 255 km
	d := HaversineKm(52.52, 13.405, 53.5511, 9.9937)
	if d < 240 || d > 270 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestPathDistanceKm_ShortInputs(t *testing.T) {
	if d := PathDistanceKm(nil); d != 0 {
		t.Fatalf("expected 0 for empty path, got %v", d)
	}
	if d := PathDistanceKm([]Point{{Lat: 52.52, Lon: 13.405}}); d != 0 {
		t.Fatalf("expected 0 for single point, got %v", d)
	}
}

func TestPathDistanceKm_SumsConsecutivePairs(t *testing.T) {
	a := Point{Lat: 52.5200, Lon: 13.4050}
	b := Point{Lat: 52.5300, Lon: 13.4150}
	c := Point{Lat: 52.5400, Lon: 13.4250}

	got := PathDistanceKm([]Point{a, b, c})
	want := Round2(HaversineKm(a.Lat, a.Lon, b.Lat, b.Lon) + HaversineKm(b.Lat, b.Lon, c.Lat, c.Lon))
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got <= 0 {
		t.Fatalf("expected positive distance, got %v", got)
	}
}

func TestPathDistanceKm_OrderSensitive(t *testing.T) {
	a := Point{Lat: 52.5200, Lon: 13.4050}
	b := Point{Lat: 52.5300, Lon: 13.4150}
	c := Point{Lat: 52.5400, Lon: 13.4250}

	inOrder := PathDistanceKm([]Point{a, b, c})
	detour := PathDistanceKm([]Point{a, c, b})
	if detour <= inOrder {
		t.Fatalf("expected a detoured ordering to be longer: in-order %v, detour %v", inOrder, detour)
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(1.005); got != 1.0 && got != 1.01 {
		t.Fatalf("unexpected rounding: %v", got)
	}
	if got := Round2(12.3456); got != 12.35 {
		t.Fatalf("expected 12.35, got %v", got)
	}
}
