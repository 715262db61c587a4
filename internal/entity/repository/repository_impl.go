package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/voozea/voozea/internal/entity/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) WithTx(tx *gorm.DB) domain.Repository {
	return &repo{db: tx}
}

func (r *repo) GetRecord(ctx context.Context, id snowflake.ID) (*domain.EntityRecord, error) {
	var record domain.EntityRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repo) ResolveUser(ctx context.Context, id snowflake.ID) (*domain.Entity, error) {
	var row struct {
		ID          snowflake.ID
		Username    string
		DisplayName string
		AvatarURL   string
	}
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, username, display_name, avatar_url FROM profiles WHERE id = ?`,
		id,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}

	name := strings.TrimSpace(row.DisplayName)
	if name == "" {
		name = row.Username
	}
	return &domain.Entity{
		ID:        row.ID,
		Type:      domain.EntityTypeUser,
		Name:      name,
		AvatarURL: row.AvatarURL,
		Username:  row.Username,
	}, nil
}

func (r *repo) ResolveBusiness(ctx context.Context, id snowflake.ID) (*domain.Entity, error) {
	var row struct {
		ID        snowflake.ID
		Name      string
		Slug      string
		AvatarURL string
	}
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, name, slug, avatar_url FROM businesses WHERE id = ?`,
		id,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}

	return &domain.Entity{
		ID:        row.ID,
		Type:      domain.EntityTypeBusiness,
		Name:      row.Name,
		AvatarURL: row.AvatarURL,
		Slug:      row.Slug,
	}, nil
}

func (r *repo) OwnedBusinesses(ctx context.Context, userID snowflake.ID) ([]domain.Entity, error) {
	return r.scanBusinessEntities(ctx,
		`SELECT id, name, slug, avatar_url FROM businesses WHERE owner_id = ? ORDER BY created_at ASC, id ASC`,
		userID,
	)
}

func (r *repo) ManagedBusinesses(ctx context.Context, userID snowflake.ID) ([]domain.Entity, error) {
	return r.scanBusinessEntities(ctx,
		`SELECT b.id, b.name, b.slug, b.avatar_url
		 FROM businesses b
		 JOIN business_memberships m ON m.business_id = b.id
		 WHERE m.user_id = ? AND m.role = 'manager' AND m.status = 'active'
		 ORDER BY b.created_at ASC, b.id ASC`,
		userID,
	)
}

func (r *repo) scanBusinessEntities(ctx context.Context, query string, args ...any) ([]domain.Entity, error) {
	var rows []struct {
		ID        snowflake.ID
		Name      string
		Slug      string
		AvatarURL string
	}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	entities := make([]domain.Entity, 0, len(rows))
	for _, row := range rows {
		entities = append(entities, domain.Entity{
			ID:        row.ID,
			Type:      domain.EntityTypeBusiness,
			Name:      row.Name,
			AvatarURL: row.AvatarURL,
			Slug:      row.Slug,
		})
	}
	return entities, nil
}

func (r *repo) IsOwner(ctx context.Context, businessID, userID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM businesses WHERE id = ? AND owner_id = ?`,
		businessID, userID,
	).Scan(&count).Error
	return count > 0, err
}

func (r *repo) IsActiveManager(ctx context.Context, businessID, userID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM business_memberships
		 WHERE business_id = ? AND user_id = ? AND role = 'manager' AND status = 'active'`,
		businessID, userID,
	).Scan(&count).Error
	return count > 0, err
}

func (r *repo) CreateFollow(ctx context.Context, follow *domain.EntityFollow) error {
	return r.db.WithContext(ctx).Create(follow).Error
}

func (r *repo) DeleteFollow(ctx context.Context, followerID, followingID snowflake.ID) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&domain.EntityFollow{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *repo) FollowExists(ctx context.Context, followerID, followingID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.EntityFollow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

func (r *repo) ListFollowers(ctx context.Context, entityID snowflake.ID, before *domain.FollowCursor, limit int) ([]domain.EntityFollow, error) {
	return r.listFollows(ctx, "following_id", entityID, before, limit)
}

func (r *repo) ListFollowing(ctx context.Context, entityID snowflake.ID, before *domain.FollowCursor, limit int) ([]domain.EntityFollow, error) {
	return r.listFollows(ctx, "follower_id", entityID, before, limit)
}

func (r *repo) listFollows(ctx context.Context, column string, entityID snowflake.ID, before *domain.FollowCursor, limit int) ([]domain.EntityFollow, error) {
	stmt := r.db.WithContext(ctx).
		Model(&domain.EntityFollow{}).
		Where(column+" = ?", entityID)
	if before != nil {
		stmt = stmt.Where("(created_at < ?) OR (created_at = ? AND id < ?)", before.CreatedAt, before.CreatedAt, before.ID)
	}
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}

	var edges []domain.EntityFollow
	err := stmt.Order("created_at DESC, id DESC").Find(&edges).Error
	if err != nil {
		return nil, err
	}
	return edges, nil
}

// AdjustFollowCounters keeps the denormalized counters in step with the edge
// write. Both variants carry both counters, each on its own table.
func (r *repo) AdjustFollowCounters(ctx context.Context, follower, following domain.EntityRecord, delta int64) error {
	switch follower.EntityType {
	case domain.EntityTypeUser:
		err := r.db.WithContext(ctx).Exec(
			`UPDATE profiles
			 SET following_count = CASE WHEN following_count + ? < 0 THEN 0 ELSE following_count + ? END
			 WHERE id = ?`,
			delta, delta, follower.ID,
		).Error
		if err != nil {
			return err
		}
	case domain.EntityTypeBusiness:
		err := r.db.WithContext(ctx).Exec(
			`UPDATE businesses
			 SET following_count = CASE WHEN following_count + ? < 0 THEN 0 ELSE following_count + ? END
			 WHERE id = ?`,
			delta, delta, follower.ID,
		).Error
		if err != nil {
			return err
		}
	}

	switch following.EntityType {
	case domain.EntityTypeUser:
		return r.db.WithContext(ctx).Exec(
			`UPDATE profiles
			 SET followers_count = CASE WHEN followers_count + ? < 0 THEN 0 ELSE followers_count + ? END
			 WHERE id = ?`,
			delta, delta, following.ID,
		).Error
	case domain.EntityTypeBusiness:
		return r.db.WithContext(ctx).Exec(
			`UPDATE businesses
			 SET followers_count = CASE WHEN followers_count + ? < 0 THEN 0 ELSE followers_count + ? END
			 WHERE id = ?`,
			delta, delta, following.ID,
		).Error
	}
	return nil
}

func (r *repo) SearchUsers(ctx context.Context, query string, excludeIDs []snowflake.ID, limit int) ([]domain.Entity, error) {
	stmt := r.db.WithContext(ctx).
		Table("profiles").
		Select("id, username, display_name, avatar_url").
		Where(`(username LIKE ? ESCAPE '\' OR lower(display_name) LIKE ? ESCAPE '\')`, likePattern(query), likePattern(query))
	if len(excludeIDs) > 0 {
		stmt = stmt.Where("id NOT IN ?", excludeIDs)
	}

	var rows []struct {
		ID          snowflake.ID
		Username    string
		DisplayName string
		AvatarURL   string
	}
	if err := stmt.Order("username ASC").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, err
	}

	entities := make([]domain.Entity, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.DisplayName)
		if name == "" {
			name = row.Username
		}
		entities = append(entities, domain.Entity{
			ID:        row.ID,
			Type:      domain.EntityTypeUser,
			Name:      name,
			AvatarURL: row.AvatarURL,
			Username:  row.Username,
		})
	}
	return entities, nil
}

func (r *repo) SearchBusinesses(ctx context.Context, query string, excludeIDs []snowflake.ID, limit int) ([]domain.Entity, error) {
	stmt := r.db.WithContext(ctx).
		Table("businesses").
		Select("id, name, slug, avatar_url").
		Where(`lower(name) LIKE ? ESCAPE '\'`, likePattern(query))
	if len(excludeIDs) > 0 {
		stmt = stmt.Where("id NOT IN ?", excludeIDs)
	}

	var rows []struct {
		ID        snowflake.ID
		Name      string
		Slug      string
		AvatarURL string
	}
	if err := stmt.Order("name ASC").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, err
	}

	entities := make([]domain.Entity, 0, len(rows))
	for _, row := range rows {
		entities = append(entities, domain.Entity{
			ID:        row.ID,
			Type:      domain.EntityTypeBusiness,
			Name:      row.Name,
			AvatarURL: row.AvatarURL,
			Slug:      row.Slug,
		})
	}
	return entities, nil
}

func likePattern(query string) string {
	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(strings.ToLower(query))
	return "%" + escaped + "%"
}
