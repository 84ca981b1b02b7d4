package service

import (
	"context"
	"encoding/json"
	"errors"

	"opportunity_hub/internal/domain"
	"opportunity_hub/internal/store"

	"github.com/sirupsen/logrus"
)

// ProfileService creates and updates the single profile each user owns
type ProfileService struct {
	store store.Store
	cache Cache
}

// NewProfileService returns a ProfileService
func NewProfileService(st store.Store, c Cache) *ProfileService {
	return &ProfileService{store: st, cache: orNoCache(c)}
}

// ProfileView is a profile joined with its account
type ProfileView struct {
	Profile domain.Profile
	User    domain.User
}

// MarshalJSON renders the profile with "user" expanded to {id, email, role}
func (v ProfileView) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(v.Profile)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	out["user"] = map[string]any{"id": v.User.ID, "email": v.User.Email, "role": v.User.Role}
	return json.Marshal(out)
}

// Upsert validates p and stores it as the caller's profile, replacing the
// fields of an existing profile in place
func (s *ProfileService) Upsert(ctx context.Context, id domain.Identity, p domain.Profile) (domain.Profile, error) {
	if p.Role() == "" || p.Role() != id.Role {
		return domain.Profile{}, domain.Forbidden("Profile type does not match account role")
	}
	if err := domain.Validate(p.Value()); err != nil {
		return domain.Profile{}, err
	}

	var err error
	switch p.Role() {
	case domain.RoleStudent:
		v, _ := p.Student()
		err = upsertProfile(ctx, v, id.UserID, &v.ID, &v.UserID, s.store.GetStudentByUser, s.store.SaveStudent,
			func(e *domain.Student) uint { return e.ID })
	case domain.RoleSchool:
		v, _ := p.School()
		err = upsertProfile(ctx, v, id.UserID, &v.ID, &v.UserID, s.store.GetSchoolByUser, s.store.SaveSchool,
			func(e *domain.School) uint { return e.ID })
		if err == nil {
			invalidate(ctx, s.cache, programsListKey)
		}
	case domain.RoleEmployer:
		v, _ := p.Employer()
		err = upsertProfile(ctx, v, id.UserID, &v.ID, &v.UserID, s.store.GetEmployerByUser, s.store.SaveEmployer,
			func(e *domain.Employer) uint { return e.ID })
		if err == nil {
			invalidate(ctx, s.cache, jobsListKey)
		}
	}
	if err != nil {
		return domain.Profile{}, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id": id.UserID, // Owning user
		"role":    id.Role,   // Profile type
	}).Info("Profile saved")
	return p, nil
}

// upsertProfile binds v to userID, reusing the id of an existing profile.
// A concurrent first insert for the same user surfaces as ErrDuplicate, in
// which case the lookup runs again and the write becomes an update.
func upsertProfile[T any](
	ctx context.Context,
	v *T,
	userID uint,
	idField, userField *uint,
	get func(context.Context, uint) (*T, error),
	save func(context.Context, *T) error,
	idOf func(*T) uint,
) error {
	*userField = userID
	for attempt := 0; ; attempt++ {
		*idField = 0
		existing, err := get(ctx, userID)
		switch {
		case err == nil:
			*idField = idOf(existing)
		case !errors.Is(err, store.ErrNotFound):
			return storeFailure("load profile", err)
		}
		err = save(ctx, v)
		if err == nil {
			return nil
		}
		if errors.Is(err, store.ErrDuplicate) && attempt == 0 {
			continue
		}
		return storeFailure("save profile", err)
	}
}

// Me returns the caller's profile joined with the account
func (s *ProfileService) Me(ctx context.Context, id domain.Identity) (*ProfileView, error) {
	user, err := s.store.GetUser(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.Unauthenticated("Account no longer exists")
		}
		return nil, storeFailure("load user", err)
	}
	p, err := s.profileOf(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &domain.Error{Kind: domain.ErrProfileRequired, Msg: "There is no profile for this user"}
		}
		return nil, storeFailure("load profile", err)
	}
	return &ProfileView{Profile: p, User: *user}, nil
}

func (s *ProfileService) profileOf(ctx context.Context, user *domain.User) (domain.Profile, error) {
	switch user.Role {
	case domain.RoleStudent:
		v, err := s.store.GetStudentByUser(ctx, user.ID)
		if err != nil {
			return domain.Profile{}, err
		}
		return domain.StudentProfile(v), nil
	case domain.RoleSchool:
		v, err := s.store.GetSchoolByUser(ctx, user.ID)
		if err != nil {
			return domain.Profile{}, err
		}
		return domain.SchoolProfile(v), nil
	case domain.RoleEmployer:
		v, err := s.store.GetEmployerByUser(ctx, user.ID)
		if err != nil {
			return domain.Profile{}, err
		}
		return domain.EmployerProfile(v), nil
	}
	return domain.Profile{}, store.ErrNotFound
}
