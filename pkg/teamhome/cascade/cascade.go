// Package cascade deletes a team together with every record that only
// exists in relation to it. The team row is removed first, atomically with
// a TeamDeletion job; the dependent records are then removed step by step
// and the job records how far it got, so an interrupted cleanup can be
// resumed.
package cascade

import (
	"context"
	"errors"
	"fmt"

	"github.com/mikepea/teamhome/pkg/teamhome/apperr"
	"github.com/mikepea/teamhome/pkg/teamhome/membership"
	"github.com/mikepea/teamhome/pkg/teamhome/models"
	"github.com/mikepea/teamhome/pkg/teamhome/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -destination=mocks_test.go -package=cascade . Teams,Parents,Comments,TeamScoped,Jobs,Transactor

// DefaultParallelism bounds concurrent comment deletions per step
const DefaultParallelism = 4

// Teams is the part of the team repository the cascade needs
type Teams interface {
	FindByID(ctx context.Context, id uint) (*models.Team, error)
	DeleteByID(ctx context.Context, id uint) (*models.Team, error)
}

// TeamScoped deletes records owned directly by a team
type TeamScoped interface {
	DeleteByTeam(ctx context.Context, teamID uint) (int64, error)
}

// Parents are team-scoped records that own comments
type Parents interface {
	TeamScoped
	IDsByTeam(ctx context.Context, teamID uint) ([]uint, error)
}

// Comments deletes the comments of one parent record
type Comments interface {
	DeleteByParent(ctx context.Context, parentID uint) (int64, error)
}

// Jobs persists deletion progress
type Jobs interface {
	Create(ctx context.Context, job *models.TeamDeletion) error
	Save(ctx context.Context, job *models.TeamDeletion) error
	ListPending(ctx context.Context, limit int) ([]models.TeamDeletion, error)
}

// Transactor runs fn inside a transaction carried on the context
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repos are the repositories touched by a team deletion
type Repos struct {
	Teams       Teams
	Messages    Parents
	MsgComments Comments
	Documents   Parents
	DocComments Comments
	Folders     TeamScoped
	Events      TeamScoped
	Jobs        Jobs
	Tx          Transactor
}

// FromStore selects the cascade repositories from the gorm stores
func FromStore(r *store.Repositories) Repos {
	return Repos{
		Teams:       r.Teams,
		Messages:    r.Messages,
		MsgComments: r.MsgComments,
		Documents:   r.Documents,
		DocComments: r.DocComments,
		Folders:     r.Folders,
		Events:      r.Events,
		Jobs:        r.Deletions,
		Tx:          r.Tx,
	}
}

// Options tune the orchestrator
type Options struct {
	// PurgeEvents removes the team's events as the last step. When false
	// events are retained as audit history.
	PurgeEvents bool
	Parallelism int
}

// Orchestrator runs team deletions
type Orchestrator struct {
	repos       Repos
	purgeEvents bool
	parallelism int
	logger      *zap.Logger
}

// NewOrchestrator creates a new cascade orchestrator
func NewOrchestrator(repos Repos, opts Options, logger *zap.Logger) *Orchestrator {
	if opts.Parallelism <= 0 {
		opts.Parallelism = DefaultParallelism
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		repos:       repos,
		purgeEvents: opts.PurgeEvents,
		parallelism: opts.Parallelism,
		logger:      logger,
	}
}

// DeleteTeam deletes a team on behalf of one of its admins and returns the
// deleted record. When the team row is gone but a cleanup step failed the
// error is Internal and the pending job is left for Resume.
func (o *Orchestrator) DeleteTeam(ctx context.Context, teamID, actingUserID uint) (*models.Team, error) {
	team, err := o.repos.Teams.FindByID(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "Team doesn't exist")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to load team", err)
	}
	if !membership.IsAdmin(team, actingUserID) {
		return nil, apperr.New(apperr.Forbidden, "You do not have permission to do that.")
	}

	job := &models.TeamDeletion{
		TeamID:      teamID,
		RequestedBy: actingUserID,
		NextStep:    models.StepMessageComments,
		Status:      models.DeletionPending,
	}

	var deleted *models.Team
	err = o.repos.Tx.RunInTransaction(ctx, func(ctx context.Context) error {
		// Re-checked here: a concurrent deletion may have won the race.
		removed, err := o.repos.Teams.DeleteByID(ctx, teamID)
		if err != nil {
			return err
		}
		deleted = removed
		return o.repos.Jobs.Create(ctx, job)
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "Team doesn't exist")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to delete team", err)
	}

	if err := o.Resume(ctx, job); err != nil {
		return nil, err
	}

	o.logger.Info("team deleted",
		zap.Uint("team_id", teamID),
		zap.Uint("user_id", actingUserID))
	return deleted, nil
}

// Resume runs the remaining steps of a deletion job. Every step is
// idempotent so a step that partly ran before is safe to repeat.
func (o *Orchestrator) Resume(ctx context.Context, job *models.TeamDeletion) error {
	for job.Status != models.DeletionCompleted {
		step := job.NextStep
		if err := o.runStep(ctx, job.TeamID, step); err != nil {
			o.fail(ctx, job, err)
			return apperr.Wrap(apperr.Internal, "Team deleted, cleanup incomplete", err)
		}

		job.NextStep = step + 1
		if job.NextStep >= models.StepDone {
			job.NextStep = models.StepDone
			job.Status = models.DeletionCompleted
			job.LastError = ""
		}
		if err := o.repos.Jobs.Save(ctx, job); err != nil {
			o.logger.Error("failed to record deletion progress",
				zap.Uint("team_id", job.TeamID),
				zap.Stringer("step", step),
				zap.Error(err))
			return apperr.Wrap(apperr.Internal, "Team deleted, cleanup incomplete", err)
		}
	}
	return nil
}

// ResumePending resumes up to limit unfinished jobs and returns how many
// completed. A failing job does not stop the others.
func (o *Orchestrator) ResumePending(ctx context.Context, limit int) (int, error) {
	jobs, err := o.repos.Jobs.ListPending(ctx, limit)
	if err != nil {
		return 0, err
	}

	completed := 0
	for i := range jobs {
		if err := ctx.Err(); err != nil {
			return completed, err
		}
		if err := o.Resume(ctx, &jobs[i]); err != nil {
			continue
		}
		completed++
	}
	return completed, nil
}

func (o *Orchestrator) fail(ctx context.Context, job *models.TeamDeletion, stepErr error) {
	job.Attempts++
	job.LastError = stepErr.Error()
	o.logger.Error("team cleanup step failed",
		zap.Uint("team_id", job.TeamID),
		zap.Stringer("step", job.NextStep),
		zap.Int("attempts", job.Attempts),
		zap.Error(stepErr))

	// The failure must still be recorded when the request context is done.
	if err := o.repos.Jobs.Save(context.WithoutCancel(ctx), job); err != nil {
		o.logger.Error("failed to record cleanup failure",
			zap.Uint("team_id", job.TeamID),
			zap.Error(err))
	}
}

func (o *Orchestrator) runStep(ctx context.Context, teamID uint, step models.DeletionStep) error {
	switch step {
	case models.StepMessageComments:
		return o.deleteComments(ctx, teamID, o.repos.Messages, o.repos.MsgComments)
	case models.StepMessages:
		_, err := o.repos.Messages.DeleteByTeam(ctx, teamID)
		return err
	case models.StepDocumentComments:
		return o.deleteComments(ctx, teamID, o.repos.Documents, o.repos.DocComments)
	case models.StepDocuments:
		_, err := o.repos.Documents.DeleteByTeam(ctx, teamID)
		return err
	case models.StepFolders:
		_, err := o.repos.Folders.DeleteByTeam(ctx, teamID)
		return err
	case models.StepEvents:
		if !o.purgeEvents {
			return nil
		}
		_, err := o.repos.Events.DeleteByTeam(ctx, teamID)
		return err
	case models.StepDone:
		return nil
	default:
		return fmt.Errorf("unknown deletion step %d", step)
	}
}

// deleteComments removes the comments of every parent of a team. Sibling
// parents are independent, so their deletions run concurrently; the call
// returns only after all of them finished.
func (o *Orchestrator) deleteComments(ctx context.Context, teamID uint, parents Parents, comments Comments) error {
	ids, err := parents.IDsByTeam(ctx, teamID)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallelism)
	for _, id := range ids {
		g.Go(func() error {
			_, err := comments.DeleteByParent(gctx, id)
			return err
		})
	}
	return g.Wait()
}
