package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/paulmach/orb"

	"Cities-App/internal/config"
	"Cities-App/internal/domain/model"
	"Cities-App/internal/domain/repository"
	"Cities-App/internal/infrastructure/database"
	"Cities-App/internal/logger"
	"Cities-App/internal/migrate"
	placesrepo "Cities-App/internal/repository"
)

type options struct {
	backend   string
	migrate   bool
	level     string
	id        int64
	geojson   bool
	lat       float64
	lng       float64
	radius    float64
	limit     int
	neighbour string
}

func main() {
	var opts options
	flag.StringVar(&opts.backend, "backend", "", "postgres | sqlite | supabase（未指定なら DB_DRIVER）")
	flag.BoolVar(&opts.migrate, "migrate", false, "スキーマを作成・更新する")
	flag.StringVar(&opts.level, "level", "", "country | region | subregion | city | district | postal_code")
	flag.Int64Var(&opts.id, "id", 0, "対象の ID")
	flag.BoolVar(&opts.geojson, "geojson", false, "GeoJSON Feature として出力する")
	flag.Float64Var(&opts.lat, "lat", 0, "空間検索の緯度")
	flag.Float64Var(&opts.lng, "lng", 0, "空間検索の経度")
	flag.Float64Var(&opts.radius, "radius", 0, "周辺都市検索の半径（メートル）")
	flag.IntVar(&opts.limit, "limit", 10, "周辺都市の最大件数")
	flag.StringVar(&opts.neighbour, "neighbours", "", "指定した国コードの隣接国を表示する")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定の読み込みに失敗: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, os.Stdout); err != nil {
		logger.L().Error().Err(err).Msg("実行に失敗しました")
		os.Exit(1)
	}
}

// stores バックエンドごとのリポジトリ。supabase では spatial は nil
type stores struct {
	places  repository.PlacesRepository
	spatial repository.SpatialRepository
	client  *database.Client
	close   func()
}

func openStores(ctx context.Context, cfg *config.Config, backend string) (*stores, error) {
	if backend == "" {
		backend = cfg.Driver
	}

	switch strings.ToLower(backend) {
	case config.DriverPostgres:
		client, err := database.NewPostgreSQLClientWithRetry(ctx, cfg)
		if err != nil {
			return nil, err
		}
		repo := placesrepo.NewGormPlacesRepository(client.Gorm)
		return &stores{places: repo, spatial: repo, client: client, close: func() { client.Close() }}, nil
	case config.DriverSQLite:
		client, err := database.NewSQLiteClient(cfg)
		if err != nil {
			return nil, err
		}
		repo := placesrepo.NewGormPlacesRepository(client.Gorm)
		return &stores{places: repo, spatial: repo, client: client, close: func() { client.Close() }}, nil
	case "supabase":
		client, err := database.NewSupabaseClient(cfg)
		if err != nil {
			return nil, err
		}
		if err := client.HealthCheck(); err != nil {
			return nil, err
		}
		logger.L().Info().Str("url", client.URL()).Msg("Supabaseクライアントを初期化しました")
		return &stores{places: placesrepo.NewSupabasePlacesRepository(client), close: func() {}}, nil
	default:
		return nil, fmt.Errorf("未対応のバックエンドです: %s", backend)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options, out io.Writer) error {
	s, err := openStores(ctx, cfg, opts.backend)
	if err != nil {
		return err
	}
	defer s.close()

	if opts.migrate {
		if s.client == nil {
			return errors.New("-migrate は postgres か sqlite バックエンドでのみ使えます")
		}
		if err := migrate.EnsureSchema(ctx, s.client.Gorm); err != nil {
			return err
		}
		logger.L().Info().Str("dialect", s.client.Dialect()).Msg("スキーマを更新しました")
	}

	if opts.level != "" {
		level, err := model.ParseLevel(opts.level)
		if err != nil {
			return err
		}
		place, err := s.places.Resolve(ctx, level, opts.id)
		if err != nil {
			return err
		}
		if opts.geojson {
			return writeJSON(out, model.Feature(place))
		}
		printPlace(out, place)
	}

	if opts.neighbour != "" {
		if err := printNeighbours(ctx, out, s.places, opts.neighbour); err != nil {
			return err
		}
	}

	if opts.lat != 0 || opts.lng != 0 {
		if s.spatial == nil {
			return errors.New("このバックエンドは空間検索に対応していません")
		}
		if err := printSpatial(ctx, out, s.spatial, opts); err != nil {
			return err
		}
	}
	return nil
}

func printPlace(out io.Writer, place model.Place) {
	for i, p := range model.Hierarchy(place) {
		fmt.Fprintf(out, "%s%s: %s\n", strings.Repeat("  ", i), p.Level(), p)
	}
	fmt.Fprintf(out, "url: %s\n", model.AbsoluteURL(place))

	if coded, ok := place.(interface{ FullCode() string }); ok {
		fmt.Fprintf(out, "full_code: %s\n", coded.FullCode())
	}
	if postal, ok := place.(*model.PostalCode); ok {
		fmt.Fprintf(out, "name_full: %s\n", postal.NameFull())
	}
	for _, alt := range place.AlternativeNames() {
		fmt.Fprintf(out, "alt: %s\n", alt)
	}
}

func printNeighbours(ctx context.Context, out io.Writer, repo repository.PlacesRepository, code string) error {
	country, err := repo.GetCountryByCode(ctx, code)
	if err != nil {
		return err
	}
	neighbours, err := repo.Neighbours(ctx, country.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s の隣接国 (%d):\n", country, len(neighbours))
	for i := range neighbours {
		fmt.Fprintf(out, "  %s %s\n", neighbours[i].Code, &neighbours[i])
	}
	return nil
}

func printSpatial(ctx context.Context, out io.Writer, repo repository.SpatialRepository, opts options) error {
	point := orb.Point(model.NewPoint(opts.lat, opts.lng))

	country, err := repo.CountryContaining(ctx, point)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		fmt.Fprintln(out, "country: -")
	case err != nil:
		return err
	default:
		fmt.Fprintf(out, "country: %s\n", country)
	}

	if opts.radius <= 0 {
		return nil
	}
	cities, err := repo.NearbyCities(ctx, point, opts.radius, opts.limit)
	if err != nil {
		return err
	}
	if opts.geojson {
		places := make([]model.Place, 0, len(cities))
		for i := range cities {
			places = append(places, &cities[i])
		}
		return writeJSON(out, model.FeatureCollection(places...))
	}
	for i := range cities {
		fmt.Fprintf(out, "city: %s (%s)\n", &cities[i], cities[i].AbsoluteURL())
	}
	return nil
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
