// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"pulse/internal/models"
	"pulse/internal/repository"
	"pulse/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var topics = []string{
	"golang", "music", "travel", "fitness", "coffee", "photography",
	"gaming", "books", "cooking", "running", "art", "startups",
}

// Run populates the database with a connected social mesh: users with
// profiles, posts carrying hashtags, a follow graph, likes, comments and a
// few direct message threads. Counters are recomputed at the end so seeded
// data obeys the same invariants as live data.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	ctx := context.Background()

	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = opts.NumUsers * 4
	}

	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return fmt.Errorf("clean: %w", err)
		}
	}

	users, err := seedUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	posts, err := seedPosts(ctx, db, r, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}

	if err := seedFollows(db, r, users); err != nil {
		return fmt.Errorf("seed follows: %w", err)
	}
	if err := seedLikesAndComments(db, r, users, posts); err != nil {
		return fmt.Errorf("seed engagement: %w", err)
	}
	if err := seedMessages(db, r, users); err != nil {
		return fmt.Errorf("seed messages: %w", err)
	}
	if err := recomputeAll(ctx, db, users, posts); err != nil {
		return fmt.Errorf("recompute counters: %w", err)
	}

	log.Printf("Seeded %d users, %d posts", len(users), len(posts))
	return nil
}

func clean(db *gorm.DB) error {
	tables := []string{
		"messages", "notifications", "likes", "comments", "post_tags",
		"tags", "posts", "follows", "profiles", "users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedUsers(db *gorm.DB, n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		username := strings.ToLower(gofakeit.Username())
		user := &models.User{
			Username: fmt.Sprintf("%s%d", username, i),
			Email:    fmt.Sprintf("%s%d@%s", username, i, gofakeit.DomainName()),
			Password: string(hashed),
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		profile := &models.Profile{
			UserID: user.ID,
			Bio:    gofakeit.Sentence(8),
			Avatar: fmt.Sprintf("https://picsum.photos/seed/%s/200/200", gofakeit.UUID()),
		}
		if err := db.Create(profile).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func seedPosts(ctx context.Context, db *gorm.DB, r *rand.Rand, users []*models.User, n int) ([]*models.Post, error) {
	tagRepo := repository.NewTagRepository(db)
	postRepo := repository.NewPostRepository(db)

	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[r.Intn(len(users))]
		content := gofakeit.Paragraph(1, 2, 8, " ")
		// Most posts carry one or two hashtags.
		if r.Intn(4) > 0 {
			content += " #" + topics[r.Intn(len(topics))]
			if r.Intn(3) == 0 {
				content += " #" + topics[r.Intn(len(topics))]
			}
		}

		post := &models.Post{
			AuthorID:  author.ID,
			Content:   content,
			CreatedAt: time.Now().Add(-time.Duration(r.Intn(14*24)) * time.Hour),
		}
		if err := postRepo.Create(ctx, post); err != nil {
			return nil, err
		}

		if names := service.ParseTags(content); len(names) > 0 {
			tags, err := tagRepo.FindOrCreate(ctx, names)
			if err != nil {
				return nil, err
			}
			if err := postRepo.ReplaceTags(ctx, post, tags); err != nil {
				return nil, err
			}
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func seedFollows(db *gorm.DB, r *rand.Rand, users []*models.User) error {
	for _, follower := range users {
		n := 2 + r.Intn(5)
		for i := 0; i < n; i++ {
			target := users[r.Intn(len(users))]
			if target.ID == follower.ID {
				continue
			}
			follow := models.Follow{FollowerID: follower.ID, FollowingID: target.ID}
			// Duplicate pairs lose to the unique index; ignore them.
			db.Where(follow).FirstOrCreate(&follow)
		}
	}
	return nil
}

func seedLikesAndComments(db *gorm.DB, r *rand.Rand, users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		for _, user := range users {
			if r.Intn(4) != 0 {
				continue
			}
			like := models.Like{UserID: user.ID, PostID: post.ID}
			db.Where(like).FirstOrCreate(&like)
			if user.ID != post.AuthorID {
				if err := db.Create(&models.Notification{
					UserID:  post.AuthorID,
					Kind:    models.NotificationLike,
					PostID:  &post.ID,
					ActorID: &user.ID,
				}).Error; err != nil {
					return err
				}
			}
		}

		for i := 0; i < r.Intn(4); i++ {
			commenter := users[r.Intn(len(users))]
			comment := models.Comment{
				Content: gofakeit.Sentence(10),
				UserID:  commenter.ID,
				PostID:  post.ID,
			}
			if err := db.Create(&comment).Error; err != nil {
				return err
			}
			if commenter.ID != post.AuthorID {
				if err := db.Create(&models.Notification{
					UserID:    post.AuthorID,
					Kind:      models.NotificationComment,
					PostID:    &post.ID,
					CommentID: &comment.ID,
					ActorID:   &commenter.ID,
				}).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func seedMessages(db *gorm.DB, r *rand.Rand, users []*models.User) error {
	// Message threads only between connected users, matching the gateway rule.
	var follows []models.Follow
	if err := db.Limit(30).Find(&follows).Error; err != nil {
		return err
	}
	for _, f := range follows {
		if r.Intn(2) == 0 {
			continue
		}
		n := 1 + r.Intn(6)
		for i := 0; i < n; i++ {
			sender, receiver := f.FollowerID, f.FollowingID
			if r.Intn(2) == 0 {
				sender, receiver = receiver, sender
			}
			if err := db.Create(&models.Message{
				SenderID:   sender,
				ReceiverID: receiver,
				Content:    gofakeit.Sentence(6),
				IsRead:     r.Intn(2) == 0,
			}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func recomputeAll(ctx context.Context, db *gorm.DB, users []*models.User, posts []*models.Post) error {
	counters := repository.NewCounterRepository(db)
	for _, post := range posts {
		if err := counters.RecomputePostLikes(ctx, post.ID); err != nil {
			return err
		}
		if err := counters.RecomputePostComments(ctx, post.ID); err != nil {
			return err
		}
	}
	for _, user := range users {
		if err := counters.RecomputeFollowerCount(ctx, user.ID); err != nil {
			return err
		}
		if err := counters.RecomputeFollowingCount(ctx, user.ID); err != nil {
			return err
		}
	}
	var tags []models.Tag
	if err := db.Find(&tags).Error; err != nil {
		return err
	}
	for _, tag := range tags {
		if err := counters.RecomputeTagUsage(ctx, tag.ID); err != nil {
			return err
		}
	}
	return nil
}
