package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/app"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "print the build version and exit")
		sweepOnly   = flag.Bool("sweep", false, "run one reconciliation sweep and exit instead of serving")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(app.BuildVersion)
		return
	}

	cfg := app.LoadConfig()
	hostpool, err := app.New(cfg)
	if err != nil {
		log.Fatalf("hostpool: %v", err)
	}

	if *sweepOnly {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		report, err := hostpool.SweepOnce(ctx)
		if err != nil {
			log.Fatalf("hostpool: %v", err)
		}
		fmt.Printf("torn down %d (expired credit), %d (expired record), %d (inactive user); %d credits expired\n",
			report.ExpiredCredits.TornDown, report.ExpiredRecords.TornDown,
			report.InactiveUsers.TornDown, report.CreditsExpired)
		return
	}

	if err := hostpool.Run(); err != nil {
		log.Fatalf("hostpool: %v", err)
	}
}
