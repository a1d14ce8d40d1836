package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/paulmach/orb"

	"gridengine"
)

// grid-engine rasterizes a planning scenario into the GridProblem JSON an
// external algorithm runner consumes.
func main() {
	scenarioPath := flag.String("scenario", "scenario.yaml", "scenario YAML file")
	outPath := flag.String("out", "", "output file (default stdout)")
	flag.Parse()

	log.Println("========================================")
	log.Println("🗺️  Zone Rasterization & Grid Engine")
	log.Println("========================================")

	scenario, err := gridengine.LoadScenario(*scenarioPath)
	if err != nil {
		log.Fatalf("❌ Failed to load scenario: %v", err)
	}

	var zones []*gridengine.Zone
	if scenario.ZoneDir != "" {
		zones, err = gridengine.LoadZonesFromDir(scenario.ZoneDir, scenario.NoFlyBuffer())
		if err != nil {
			log.Fatalf("❌ Failed to load zones: %v", err)
		}
	}

	bounds := scenario.PlanarBounds()
	width, height := gridengine.GridSize(bounds, scenario.CellSizeM)
	if err := gridengine.CheckGridSize(width, height); err != nil {
		log.Fatalf("❌ %v: %dx%d = %d cells (cap %d) — lower the resolution or shrink the bounds",
			err, width, height, width*height, gridengine.MaxGridCells)
	}

	log.Printf("   Grid: %dx%d cells at %.1f m/cell\n", width, height, scenario.CellSizeM)
	log.Printf("   Zones: %d\n", len(zones))

	env := gridengine.Rasterize(gridengine.RasterOptions{
		CellSizeM:           scenario.CellSizeM,
		Bounds:              bounds,
		Zones:               zones,
		CostTypes:           scenario.CostTypeTable(),
		AvoidHighMultiplier: scenario.AvoidHighMultiplier,
		RolloffDistanceM:    scenario.RolloffDistanceM,
	})

	blockedCount := 0
	for _, b := range env.Blocked {
		if b {
			blockedCount++
		}
	}
	log.Printf("   Blocked cells: %d of %d\n", blockedCount, env.CellCount())

	start, ok := cellFor(env, scenario.Start)
	if !ok {
		log.Fatalf("❌ Start point (%.6f, %.6f) is outside the planning bounds", scenario.Start.Lon, scenario.Start.Lat)
	}
	goal, ok := cellFor(env, scenario.Goal)
	if !ok {
		log.Fatalf("❌ Goal point (%.6f, %.6f) is outside the planning bounds", scenario.Goal.Lon, scenario.Goal.Lat)
	}

	problem := env.ToProblem(start, goal)
	if err := problem.Validate(); err != nil {
		log.Fatalf("❌ %v", err)
	}

	data, err := json.Marshal(problem)
	if err != nil {
		log.Fatalf("❌ Failed to encode problem: %v", err)
	}

	if *outPath == "" {
		os.Stdout.Write(data)
		os.Stdout.Write([]byte("\n"))
	} else {
		if err := os.WriteFile(*outPath, data, 0o644); err != nil {
			log.Fatalf("❌ Failed to write %s: %v", *outPath, err)
		}
		log.Printf("✅ Wrote problem to %s\n", *outPath)
	}
	log.Println("========================================")
}

func cellFor(env *gridengine.GridEnvironment, p gridengine.GeoPoint) (int, bool) {
	planar := gridengine.Forward(orb.Point{p.Lon, p.Lat})
	return env.WorldToCell(planar.X(), planar.Y())
}
