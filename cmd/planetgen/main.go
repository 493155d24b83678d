package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"Hexaplanet/internal/biome"
	"Hexaplanet/internal/config"
	"Hexaplanet/internal/logger"
	"Hexaplanet/internal/mesh"
	"Hexaplanet/internal/noise"
	"Hexaplanet/internal/normalmap"
	"Hexaplanet/internal/planet"
)

type options struct {
	configPath   string
	subdivisions int
	world        string
	out          string
	normalMap    string
	normalSize   int
	normalSeed   int64
	logLevel     string
}

func main() {
	var opts options
	flags := pflag.NewFlagSet("planetgen", pflag.ExitOnError)
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML or JSON config file")
	flags.IntVarP(&opts.subdivisions, "subdivisions", "s", -1, "subdivision level (overrides config)")
	flags.StringVarP(&opts.world, "world", "w", "", "world type: empty, ground, base, sky, space (overrides config)")
	flags.StringVarP(&opts.out, "out", "o", "", "write the mesh to this file")
	flags.StringVar(&opts.normalMap, "normal-map", "", "write a cube-map normal map PNG to this file")
	flags.IntVar(&opts.normalSize, "normal-size", normalmap.DefaultSize, "normal map face size in pixels")
	flags.Int64Var(&opts.normalSeed, "normal-seed", 10, "normal map noise seed")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (overrides config)")
	_ = flags.Parse(os.Args[1:])

	if err := run(opts); err != nil {
		logger.Log.Error("planetgen failed", zap.Error(err))
		logger.Sync()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	logger.Sync()
}

func run(opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.subdivisions >= 0 {
		cfg.Planet.Subdivisions = opts.subdivisions
	}
	if opts.world != "" {
		cfg.Planet.World = opts.world
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logger.Init(logger.Options{Level: cfg.Logging.Level, Development: cfg.Logging.Development}); err != nil {
		return err
	}

	p, err := planet.Build(cfg)
	if err != nil {
		return err
	}
	printReport(p)

	if opts.out != "" {
		if err := writeMesh(opts.out, p.Mesh); err != nil {
			return err
		}
		logger.Log.Info("Mesh written", zap.String("path", opts.out))
	}
	if opts.normalMap != "" {
		if err := writeNormalMap(opts.normalMap, opts.normalSize, opts.normalSeed, cfg); err != nil {
			return err
		}
		logger.Log.Info("Normal map written", zap.String("path", opts.normalMap))
	}
	return nil
}

func printReport(p *planet.Planet) {
	r := p.Report
	fmt.Println("===========================================")
	fmt.Printf("   Planet %s\n", p.ID)
	fmt.Println("===========================================")
	fmt.Printf("world:      %s\n", r.World)
	fmt.Printf("level:      %d\n", r.Level)
	fmt.Printf("tiles:      %d (%d pentagons)\n", r.Tiles, r.Pentagons)
	fmt.Printf("triangles:  %d\n", p.Mesh.TriangleCount())
	fmt.Printf("fallbacks:  %d\n", r.Fallbacks)
	fmt.Printf("elapsed:    %s\n", r.Elapsed)

	biomes := make([]biome.Biome, 0, len(r.Biomes))
	for b := range r.Biomes {
		biomes = append(biomes, b)
	}
	sort.Slice(biomes, func(i, j int) bool { return biomes[i] < biomes[j] })
	for _, b := range biomes {
		fmt.Printf("  %-13s %d\n", b, r.Biomes[b])
	}
}

func writeMesh(path string, m *mesh.Buffers) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create mesh file: %w", err)
	}
	if err := mesh.Encode(f, m); err != nil {
		f.Close()
		return fmt.Errorf("encode mesh: %w", err)
	}
	return f.Close()
}

func writeNormalMap(path string, size int, seed int64, cfg *config.Config) error {
	sampler, err := noise.NewSampler(planet.ParamsFromConfig(cfg).Noise)
	if err != nil {
		return err
	}
	defer sampler.Close()

	img, err := normalmap.Generate(sampler, size, normalmap.DefaultChannels(seed))
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create normal map file: %w", err)
	}
	if err := normalmap.WritePNG(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode normal map: %w", err)
	}
	return f.Close()
}
