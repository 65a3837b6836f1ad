package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tinhnguyen/internal/model/team"
	"tinhnguyen/internal/pkg/apperr"
	"tinhnguyen/internal/pkg/mongodb"
	teamRepo "tinhnguyen/internal/repository/team"
)

var seedTeamsCmd = &cobra.Command{
	Use:   "seed-teams",
	Short: "Bootstrap the team roster",
	Long: `Creates the fixed team roster (doi-1 … doi-N). Teams that already
exist are left untouched, so the command is safe to re-run.`,
	RunE: runSeedTeams,
}

func init() {
	rootCmd.AddCommand(seedTeamsCmd)

	flags := seedTeamsCmd.Flags()
	flags.Int("count", 20, "number of teams to seed")
	_ = viper.BindPFlag("roster.team_count", flags.Lookup("count"))
}

func runSeedTeams(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	count := cfg.Roster.TeamCount
	if count <= 0 {
		return fmt.Errorf("roster.team_count must be positive, got %d", count)
	}

	client, err := mongodb.New(&cfg.Mongo)
	if err != nil {
		return fmt.Errorf("failed to connect mongo: %w", err)
	}
	ctx := context.Background()
	defer func() {
		_ = client.Close(ctx)
	}()

	teams := teamRepo.NewRepo(client.Database())

	created, skipped := 0, 0
	for n := 1; n <= count; n++ {
		t := &team.Team{
			ID:   team.SlugID(n),
			Name: fmt.Sprintf("Đội %d", n),
		}
		err := teams.Create(ctx, t)
		switch {
		case err == nil:
			created++
		case apperr.IsKind(err, apperr.KindConflict):
			skipped++
		default:
			return fmt.Errorf("failed to create %s: %w", t.ID, err)
		}
	}

	log.Info().Int("created", created).Int("skipped", skipped).Msg("team roster seeded")
	return nil
}
