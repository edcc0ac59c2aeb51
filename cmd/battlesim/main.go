package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"battlesim/internal/battle"
	"battlesim/internal/config"
	"battlesim/internal/report"
)

func demoConfig() *config.BattleConfig {
	return &config.BattleConfig{
		Boss: config.ActorDef{Name: "Boss", Speed: 1500, ShieldMax: 21},
		Champions: []config.ActorDef{
			{Name: "A1", Speed: 2000},
		},
	}
}

func run() int {
	envCfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 2
	}

	var battlePath, skillsPath, input, eventsOut, bossActor string
	var ticks, stopAfterBossTurns, rowIndexStart int
	var demo, debug bool
	flag.StringVar(&battlePath, "battle", envCfg.BattlePath, "battle roster yaml")
	flag.StringVar(&skillsPath, "skills", envCfg.SkillsPath, "skill/mastery catalog yaml")
	flag.StringVar(&input, "input", "", "render an existing event stream JSON instead of simulating")
	flag.BoolVar(&demo, "demo", false, "run the built-in deterministic demo roster")
	flag.IntVar(&ticks, "ticks", envCfg.Ticks, "safety cap: max ticks to simulate")
	flag.StringVar(&bossActor, "boss-actor", envCfg.BossActor, "actor name used to close frames (default: roster boss)")
	flag.IntVar(&stopAfterBossTurns, "stop-after-boss-turns", 0, "stop after the boss completes this many turns")
	flag.StringVar(&eventsOut, "events-out", "", "write the full event stream to this JSON path")
	flag.IntVar(&rowIndexStart, "row-index-start", -1, "prefix printed rows with an index starting here (-1 = off)")
	flag.BoolVar(&debug, "debug", envCfg.Debug, "verbose logging")
	flag.Parse()

	var rowStart *int
	if rowIndexStart >= 0 {
		rowStart = &rowIndexStart
	}

	if input != "" {
		events, err := report.LoadEventStream(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: invalid input stream: %v\n", err)
			return 2
		}
		os.Stdout.WriteString(report.RenderText(events, report.RenderOptions{
			BossActor:     bossActor,
			RowIndexStart: rowStart,
		}))
		return 0
	}

	logger := zap.NewNop()
	if debug {
		logger, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			return 2
		}
		defer func() { _ = logger.Sync() }()
	}

	var bc *config.BattleConfig
	var sc *config.SkillsConfig
	switch {
	case demo:
		bc = demoConfig()
	case battlePath != "":
		bc, err = config.LoadBattle(battlePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: invalid battle config: %v\n", err)
			return 2
		}
	default:
		fmt.Fprintln(os.Stderr, "ERROR: choose one of -demo, -battle, or -input.")
		return 2
	}
	if skillsPath != "" {
		sc, err = config.LoadSkills(skillsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: invalid skill catalog: %v\n", err)
			return 2
		}
	}

	actors, requests, err := battle.NewRoster(bc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: invalid roster: %v\n", err)
		return 2
	}
	book := battle.NewSkillBook(sc)
	guard := battle.NewProcGuard(requests, book.Masteries())
	stream := battle.NewStream()

	if ticks > bc.Options.MaxTicks {
		bc.Options.MaxTicks = ticks
	}
	if stopAfterBossTurns > 0 {
		bc.Options.StopAfterBossTurns = stopAfterBossTurns
	}

	sched, err := battle.NewScheduler(actors, stream, book, guard, logger, battle.Options{
		SequencePolicy:     battle.SequencePolicy(bc.Options.SequencePolicy),
		MaxTicks:           bc.Options.MaxTicks,
		StopAfterBossTurns: bc.Options.StopAfterBossTurns,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 2
	}

	if err := sched.Run(); err != nil {
		if errors.Is(err, battle.ErrSequenceExhausted) {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			return 2
		}
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}

	if eventsOut != "" {
		if err := report.WriteEventStream(eventsOut, stream.Events()); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			return 1
		}
	}

	if bossActor == "" {
		bossActor = bc.Boss.Name
	}
	os.Stdout.WriteString(report.RenderText(stream.Events(), report.RenderOptions{
		BossActor:     bossActor,
		RowIndexStart: rowStart,
	}))
	return 0
}

func main() {
	os.Exit(run())
}
