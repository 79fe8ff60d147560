package main

import (
	"testing"

	"github.com/san-kum/vgsales/internal/dataset"
)

func TestTrendSeries(t *testing.T) {
	points := []dataset.GenreYearPoint{
		{Genre: "Action", Year: "2001", GlobalSales: "2"},
		{Genre: "Sports", Year: "1999", GlobalSales: "1"},
		{Genre: "Action", Year: "1999", GlobalSales: "3"},
		{Genre: "Action", Year: "N/A", GlobalSales: "9"},
		{Genre: "Sports", Year: "2001", GlobalSales: "oops"},
	}

	series, order, first, last, err := trendSeries(points, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != 1999 || last != 2001 {
		t.Fatalf("expected 1999-2001, got %d-%d", first, last)
	}
	if len(order) != 2 || order[0] != "Action" || order[1] != "Sports" {
		t.Errorf("expected first-seen order, got %v", order)
	}

	want := map[string][]float64{
		"Action": {3, 0, 2},
		"Sports": {1, 0, 0},
	}
	for g, w := range want {
		got := series[g]
		if len(got) != len(w) {
			t.Fatalf("%s: expected %v, got %v", g, w, got)
		}
		for i := range w {
			if got[i] != w[i] {
				t.Errorf("%s[%d]: expected %v, got %v", g, i, w[i], got[i])
			}
		}
	}
}

func TestTrendSeriesFilter(t *testing.T) {
	points := []dataset.GenreYearPoint{
		{Genre: "Action", Year: "2001", GlobalSales: "2"},
		{Genre: "Sports", Year: "1990", GlobalSales: "1"},
	}

	series, order, first, last, err := trendSeries(points, []string{"Action"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 1 || first != 2001 || last != 2001 {
		t.Errorf("expected only Action in 2001, got %v %d-%d", order, first, last)
	}
	if len(series["Action"]) != 1 {
		t.Errorf("expected a single year, got %v", series["Action"])
	}

	if series, _, _, _, _ := trendSeries(points, []string{"Racing"}); len(series) != 0 {
		t.Errorf("expected no series, got %v", series)
	}
}

func TestTrendSeriesOddYears(t *testing.T) {
	points := []dataset.GenreYearPoint{
		{Genre: "Action", Year: "2000", GlobalSales: "1"},
		{Genre: "Action", Year: "1e400", GlobalSales: "1"},
		{Genre: "Action", Year: "-1e400", GlobalSales: "1"},
	}

	series, _, first, last, err := trendSeries(points, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != 2000 || last != 2000 || len(series["Action"]) != 1 {
		t.Errorf("expected only 2000, got %d-%d %v", first, last, series["Action"])
	}

	wide := []dataset.GenreYearPoint{
		{Genre: "Action", Year: "2000", GlobalSales: "1"},
		{Genre: "Action", Year: "100000000000000000", GlobalSales: "1"},
	}
	if _, _, _, _, err := trendSeries(wide, nil); err == nil {
		t.Error("expected an error for a huge year span")
	}

	far := []dataset.GenreYearPoint{{Genre: "Action", Year: "1e300", GlobalSales: "1"}}
	if _, _, _, _, err := trendSeries(far, nil); err == nil {
		t.Error("expected an error for a year outside the int range")
	}
}
