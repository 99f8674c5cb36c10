package main

import (
	"context"
	"log"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"

	"github.com/inhagreen/windstep/internal/api"
	"github.com/inhagreen/windstep/internal/power"
	"github.com/inhagreen/windstep/internal/weather"
)

var cli struct {
	Port     string `help:"HTTP server port." default:"8080" env:"PORT"`
	KMAKey   string `name:"kma-key" help:"data.go.kr service key; weather routes are disabled when empty." env:"KMA_SERVICE_KEY"`
	GridX    int    `help:"KMA forecast grid X." default:"54" env:"KMA_GRID_X"`
	GridY    int    `help:"KMA forecast grid Y." default:"124" env:"KMA_GRID_Y"`
	Timezone string `help:"Campus timezone for projection dates." default:"Asia/Seoul" env:"TZ_NAME"`
	Seed     int64  `help:"Seed for monthly wind draws; 0 draws fresh each run." default:"0" env:"WINDSTEP_SEED"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("windstep"),
		kong.Description("Campus wind and piezoelectric power projection service."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	loc, err := time.LoadLocation(cli.Timezone)
	if err != nil {
		log.Printf("Warning: could not load %s timezone, using UTC: %v", cli.Timezone, err)
		loc = time.UTC
	}
	now := func() time.Time { return time.Now().In(loc) }

	var rng *rand.Rand
	if cli.Seed != 0 {
		rng = rand.New(rand.NewSource(cli.Seed))
		log.Printf("monthly wind draws seeded with %d", cli.Seed)
	}
	calc := power.New(nil, now, rng)

	var ws api.WeatherSource
	if cli.KMAKey != "" {
		// The same campus clock drives projection dates and KMA base times.
		ws = weather.New(cli.KMAKey, cli.GridX, cli.GridY, now)
	} else {
		log.Println("KMA_SERVICE_KEY not set, weather routes disabled")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	server := api.NewServer(calc, ws, cli.Port)
	log.Printf("starting server on :%s", cli.Port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
