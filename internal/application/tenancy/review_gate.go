package tenancy

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/review"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/shared"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/uow"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/pkg/logger"
)

const reviewDomain = "review"

// ══════════════════════════════════════════════════════════════════════════════
// REVIEW GATE
// A review is accepted only from a student holding a COMPLETED lease on the
// reviewed unit. Only the author edits; the author or an admin deletes.
// ══════════════════════════════════════════════════════════════════════════════

// ReviewInput is the data for a new review.
type ReviewInput struct {
	Content   string
	Rating    int
	HousingID string
	AuthorID  string
}

// ReviewPatch lists the editable review fields. Nil leaves a field unchanged.
type ReviewPatch struct {
	Content *string
	Rating  *int
}

// ReviewGate owns review creation and moderation.
type ReviewGate struct {
	rt  *runtime
	log *logger.Logger
}

// Create posts a review.
// Checks, in order: content, rating, housing exists, author exists,
// completed lease on the unit.
func (g *ReviewGate) Create(ctx context.Context, in ReviewInput) (_ *review.Review, err error) {
	ctx, span := g.rt.start(ctx, "ReviewGate.Create",
		attribute.String("housing.id", in.HousingID),
		attribute.String("student.id", in.AuthorID),
	)
	defer func() { finish(span, err) }()

	if err = review.ValidateContent("Create", in.Content); err != nil {
		rejected(g.log, "Create", err, logger.HousingID(in.HousingID), logger.StudentID(in.AuthorID))
		return nil, err
	}
	if err = review.ValidateRating("Create", in.Rating); err != nil {
		rejected(g.log, "Create", err, logger.HousingID(in.HousingID), logger.StudentID(in.AuthorID))
		return nil, err
	}

	var created *review.Review
	err = g.rt.inTx(ctx, func(u uow.UnitOfWork) error {
		if err := g.checkEligible(ctx, u, "Create", in.AuthorID, in.HousingID); err != nil {
			return err
		}

		r, err := review.New(review.NewParams{
			ID:        g.rt.newID(),
			Content:   in.Content,
			Rating:    in.Rating,
			HousingID: in.HousingID,
			AuthorID:  in.AuthorID,
			Now:       g.rt.clock.Now(),
		})
		if err != nil {
			return err
		}
		if err := u.Reviews().Create(ctx, r); err != nil {
			return err
		}
		created = r
		return nil
	})
	if err != nil {
		rejected(g.log, "Create", err, logger.HousingID(in.HousingID), logger.StudentID(in.AuthorID))
		return nil, err
	}

	span.SetAttributes(attribute.String("review.id", created.ID))
	g.log.Info("review posted",
		logger.ReviewID(created.ID),
		logger.HousingID(created.HousingID),
		logger.StudentID(created.AuthorID),
		logger.Int("rating", int(created.Rating)),
	)
	return created, nil
}

// Update lets the author change content and/or rating.
func (g *ReviewGate) Update(ctx context.Context, reviewID, actorID string, patch ReviewPatch) (_ *review.Review, err error) {
	ctx, span := g.rt.start(ctx, "ReviewGate.Update", attribute.String("review.id", reviewID))
	defer func() { finish(span, err) }()

	var result *review.Review
	err = g.rt.inTx(ctx, func(u uow.UnitOfWork) error {
		r, err := getReview(ctx, u, "Update", reviewID)
		if err != nil {
			return err
		}
		if !r.IsAuthor(actorID) {
			return shared.Conflict(reviewDomain, "Update", "only the author may edit review %s", r.ID)
		}
		if err := r.Edit(patch.Content, patch.Rating, g.rt.clock.Now()); err != nil {
			return err
		}
		if err := u.Reviews().Update(ctx, r); err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		rejected(g.log, "Update", err, logger.ReviewID(reviewID), logger.StudentID(actorID))
		return nil, err
	}

	g.log.Info("review edited", logger.ReviewID(result.ID), logger.StudentID(actorID))
	return result, nil
}

// Delete removes a review on behalf of its author or an admin. The reviewed
// unit must still exist.
func (g *ReviewGate) Delete(ctx context.Context, reviewID, actorID string, isAdmin bool) (err error) {
	ctx, span := g.rt.start(ctx, "ReviewGate.Delete",
		attribute.String("review.id", reviewID),
		attribute.Bool("actor.admin", isAdmin),
	)
	defer func() { finish(span, err) }()

	err = g.rt.inTx(ctx, func(u uow.UnitOfWork) error {
		r, err := getReview(ctx, u, "Delete", reviewID)
		if err != nil {
			return err
		}
		if !isAdmin && !r.IsAuthor(actorID) {
			return shared.Conflict(reviewDomain, "Delete", "actor %s may not delete review %s", actorID, r.ID)
		}
		exists, err := u.Housings().Exists(ctx, r.HousingID)
		if err != nil {
			return err
		}
		if !exists {
			return shared.Conflict(reviewDomain, "Delete", "housing %s of review %s no longer exists", r.HousingID, r.ID)
		}
		return u.Reviews().Delete(ctx, r.ID)
	})
	if err != nil {
		rejected(g.log, "Delete", err, logger.ReviewID(reviewID), logger.StudentID(actorID))
		return err
	}

	g.log.Info("review deleted",
		logger.ReviewID(reviewID),
		logger.StudentID(actorID),
		logger.Bool("admin", isAdmin),
	)
	return nil
}

// CanReview reports whether the student may review the unit now. A missing
// completed lease is answered with false; missing student or housing is an error.
func (g *ReviewGate) CanReview(ctx context.Context, studentID, housingID string) (ok bool, err error) {
	ctx, span := g.rt.start(ctx, "ReviewGate.CanReview",
		attribute.String("student.id", studentID),
		attribute.String("housing.id", housingID),
	)
	defer func() { finish(span, err) }()

	err = g.rt.inTx(ctx, func(u uow.UnitOfWork) error {
		return g.checkEligible(ctx, u, "CanReview", studentID, housingID)
	})
	switch {
	case err == nil:
		return true, nil
	case shared.IsConflict(err):
		return false, nil
	default:
		return false, err
	}
}

// Get returns a review by id.
func (g *ReviewGate) Get(ctx context.Context, reviewID string) (_ *review.Review, err error) {
	ctx, span := g.rt.start(ctx, "ReviewGate.Get", attribute.String("review.id", reviewID))
	defer func() { finish(span, err) }()

	var result *review.Review
	err = g.rt.inTx(ctx, func(u uow.UnitOfWork) error {
		var txErr error
		result, txErr = getReview(ctx, u, "Get", reviewID)
		return txErr
	})
	return result, err
}

// ListByHousing returns the unit's reviews, newest first.
func (g *ReviewGate) ListByHousing(ctx context.Context, housingID string) (_ []*review.Review, err error) {
	ctx, span := g.rt.start(ctx, "ReviewGate.ListByHousing", attribute.String("housing.id", housingID))
	defer func() { finish(span, err) }()

	var result []*review.Review
	err = g.rt.inTx(ctx, func(u uow.UnitOfWork) error {
		if err := requireHousing(ctx, u.Housings(), reviewDomain, "ListByHousing", housingID); err != nil {
			return err
		}
		var txErr error
		result, txErr = u.Reviews().ListByHousing(ctx, housingID)
		return txErr
	})
	return result, err
}

// checkEligible runs the existence checks and the completed-lease proof.
func (g *ReviewGate) checkEligible(ctx context.Context, u uow.UnitOfWork, op, studentID, housingID string) error {
	if err := requireHousing(ctx, u.Housings(), reviewDomain, op, housingID); err != nil {
		return err
	}
	if err := requireStudent(ctx, u, reviewDomain, op, studentID); err != nil {
		return err
	}
	done, err := hasCompletedLease(ctx, u, studentID, housingID)
	if err != nil {
		return err
	}
	if !done {
		return shared.Conflict(reviewDomain, op, "student %s has no completed lease on housing %s", studentID, housingID)
	}
	return nil
}

func getReview(ctx context.Context, u uow.UnitOfWork, op, reviewID string) (*review.Review, error) {
	r, err := u.Reviews().GetByID(ctx, reviewID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NotFound(reviewDomain, op, "review %s not found", reviewID)
		}
		return nil, err
	}
	return r, nil
}
