// Command advisor runs a prediction or recommendation for a draft
// described in a JSON file, or follows a live champ select through the
// League client websocket. Asset locations come from DRAFTSAGE_*
// environment variables (a .env file works).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"draftsage/internal/advisor"
	"draftsage/internal/draft"
	"draftsage/internal/feed"
	"draftsage/internal/rank"
	"draftsage/internal/recommend"
)

var (
	mode      = flag.String("mode", "predict", "predict, pick, ban or live")
	draftPath = flag.String("draft", "", "Draft state JSON file")
	elo       = flag.String("elo", "mid", "ELO group: low, mid or high")
	sideName  = flag.String("side", "blue", "Requesting side: blue or red")
	roleName  = flag.String("role", "mid", "Role to fill (pick mode)")
	patch     = flag.String("patch", "", "Patch, e.g. 15.10")
	topN      = flag.Int("top", 5, "Number of recommendations to print")

	liveHost  = flag.String("live-host", "127.0.0.1", "League client host (live mode)")
	livePort  = flag.String("live-port", "", "League client port (live mode)")
	liveToken = flag.String("live-token", "", "League client auth token (live mode)")
)

func main() {
	flag.Parse()

	group := rank.Group(*elo)
	if !group.Valid() {
		log.Fatalf("Unknown elo group %q (want low, mid or high)", *elo)
	}
	side, err := draft.SideFromString(*sideName)
	if err != nil {
		log.Fatalf("%v", err)
	}

	adv, err := advisor.New(advisor.ConfigFromEnv())
	if err != nil {
		log.Fatalf("Failed to initialize advisor: %v", err)
	}

	ctx := context.Background()

	if *mode == "live" {
		runLive(ctx, adv, group)
		return
	}

	if *draftPath == "" {
		log.Fatal("-draft is required")
	}
	raw, err := os.ReadFile(*draftPath)
	if err != nil {
		log.Fatalf("Failed to read draft: %v", err)
	}
	d, err := draft.Parse(raw)
	if err != nil {
		log.Fatalf("Failed to parse draft: %v", err)
	}

	switch *mode {
	case "predict":
		pred, err := adv.Predict(ctx, d, group, *patch)
		if err != nil {
			log.Fatalf("Prediction failed: %v", err)
		}
		fmt.Printf("Blue win probability: %.1f%% (raw %.1f%%, confidence %.2f, model %s)\n",
			pred.BlueWinProb*100, pred.RawProb*100, pred.Confidence, pred.ModelVersion)
		for _, note := range pred.Notes {
			fmt.Printf("  - %s\n", note)
		}

	case "pick":
		role, err := draft.RoleFromString(*roleName)
		if err != nil {
			log.Fatalf("%v", err)
		}
		res, err := adv.NextPick(ctx, group, side, d, role, *patch, *topN)
		if err != nil {
			log.Fatalf("Recommendation failed: %v", err)
		}
		printResult(res, "pick")

	case "ban":
		res, err := adv.Bans(ctx, group, side, d, *patch, *topN)
		if err != nil {
			log.Fatalf("Recommendation failed: %v", err)
		}
		printResult(res, "ban")

	default:
		log.Fatalf("Unknown mode %q (want predict, pick, ban or live)", *mode)
	}
}

// runLive follows the local champ-select session and re-scores the
// draft on every update until interrupted.
func runLive(ctx context.Context, adv *advisor.Advisor, group rank.Group) {
	if *livePort == "" || *liveToken == "" {
		log.Fatal("-live-port and -live-token are required in live mode")
	}

	client := feed.NewClient(func(d *draft.State, active bool) {
		if !active {
			fmt.Println("[Live] champ select ended")
			return
		}
		pred, err := adv.Predict(ctx, d, group, *patch)
		if err != nil {
			log.Printf("[Live] prediction failed: %v", err)
			return
		}
		fmt.Printf("[Live] blue %.1f%% / red %.1f%% (confidence %.2f)\n",
			pred.BlueWinProb*100, pred.RedWinProb*100, pred.Confidence)
		for _, note := range pred.Notes {
			fmt.Printf("  - %s\n", note)
		}
	})

	creds := feed.Credentials{Host: *liveHost, Port: *livePort, Token: *liveToken}
	if err := client.Connect(creds); err != nil {
		log.Fatalf("Failed to connect to the client: %v", err)
	}
	defer client.Disconnect()
	fmt.Printf("Following champ select on %s:%s (ctrl-c to stop)\n", *liveHost, *livePort)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
}

func printResult(res *recommend.Result, kind string) {
	fmt.Printf("Baseline win rate: %.1f%% (evaluated %d candidates, model %s)\n",
		res.BaselineWinRate*100, res.EvaluatedChampions, res.ModelVersion)
	for i, e := range res.Entries {
		fmt.Printf("%2d. %s (%d): %+.2f%% (raw %+.2f%%)", i+1, e.Champion, e.ChampionID,
			e.WinGain*100, e.RawWinGain*100)
		if len(e.Reasons) > 0 {
			fmt.Printf("  [%s]", strings.Join(e.Reasons, ", "))
		}
		fmt.Println()
	}
	if len(res.Entries) == 0 {
		fmt.Printf("No %s candidates available\n", kind)
	}
}
