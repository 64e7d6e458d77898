package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/courtside/tournament-engine/models"
	"github.com/courtside/tournament-engine/repositories"
	"github.com/courtside/tournament-engine/storage"
)

// ResultArchiver persists a snapshot of a finished tournament to the object
// store when its final ends. Archiving is best-effort: failures are logged,
// never surfaced to the match flow.
type ResultArchiver interface {
	ArchiveFinal(ctx context.Context, final *models.Match)
}

// tournamentArchive is the JSON document written to the bucket.
type tournamentArchive struct {
	TournamentUUID string                `json:"tournament_uuid"`
	TournamentName string                `json:"tournament_name"`
	ArchivedAt     time.Time             `json:"archived_at"`
	Matches        []*models.Match       `json:"matches"`
	Titles         []archivedTitle       `json:"titles"`
	PlayerTitles   []*models.PlayerTitle `json:"player_titles"`
}

type archivedTitle struct {
	UUID string `json:"uuid"`
	Rank int    `json:"rank"`
	Name string `json:"name"`
}

type resultArchiver struct {
	uploader       storage.FileUploader
	matchRepo      repositories.MatchRepository
	titleRepo      repositories.TitleRepository
	tournamentRepo repositories.TournamentRepository
	logger         *slog.Logger
}

func NewResultArchiver(
	uploader storage.FileUploader,
	matchRepo repositories.MatchRepository,
	titleRepo repositories.TitleRepository,
	tournamentRepo repositories.TournamentRepository,
	logger *slog.Logger,
) ResultArchiver {
	return &resultArchiver{
		uploader:       uploader,
		matchRepo:      matchRepo,
		titleRepo:      titleRepo,
		tournamentRepo: tournamentRepo,
		logger:         logger,
	}
}

func (a *resultArchiver) ArchiveFinal(ctx context.Context, final *models.Match) {
	if final == nil || final.TournamentUUID == nil {
		return
	}
	tournamentUUID := *final.TournamentUUID

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	doc, err := a.buildArchive(ctx, tournamentUUID)
	if err != nil {
		a.logger.Error("failed to build results archive",
			slog.String("tournament_uuid", tournamentUUID),
			slog.Any("error", err),
		)
		return
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		a.logger.Error("failed to encode results archive",
			slog.String("tournament_uuid", tournamentUUID),
			slog.Any("error", err),
		)
		return
	}

	key := fmt.Sprintf("results/%s/%s.json", tournamentUUID, doc.ArchivedAt.UTC().Format("20060102T150405Z"))
	uploaded, err := a.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		a.logger.Error("failed to upload results archive",
			slog.String("tournament_uuid", tournamentUUID),
			slog.String("key", key),
			slog.Any("error", err),
		)
		return
	}

	a.logger.Info("results archive uploaded",
		slog.String("tournament_uuid", tournamentUUID),
		slog.String("key", uploaded.Key),
		slog.String("location", uploaded.Location),
	)
}

func (a *resultArchiver) buildArchive(ctx context.Context, tournamentUUID string) (*tournamentArchive, error) {
	tournament, err := a.tournamentRepo.GetByUUID(ctx, nil, tournamentUUID)
	if err != nil {
		return nil, err
	}
	matches, err := a.matchRepo.ListByTournament(ctx, nil, tournamentUUID)
	if err != nil {
		return nil, err
	}
	titles, err := a.titleRepo.ListActiveByRef(ctx, nil, tournamentUUID)
	if err != nil {
		return nil, err
	}

	doc := &tournamentArchive{
		TournamentUUID: tournamentUUID,
		TournamentName: tournament.Name,
		ArchivedAt:     time.Now(),
		Matches:        matches,
	}
	for _, title := range titles {
		doc.Titles = append(doc.Titles, archivedTitle{
			UUID: title.UUID,
			Rank: title.Rank,
			Name: title.Name,
		})
		holders, err := a.titleRepo.ListActivePlayerTitles(ctx, nil, title.UUID)
		if err != nil {
			return nil, err
		}
		doc.PlayerTitles = append(doc.PlayerTitles, holders...)
	}
	return doc, nil
}
