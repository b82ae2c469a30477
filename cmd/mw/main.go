package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/alecthomas/kingpin/v2"

	"moviewave/internal/config"
	"moviewave/internal/database"
	"moviewave/internal/services"
	"moviewave/internal/types"
)

var (
	app = kingpin.New("mw", "MovieWave command-line client.")

	moviesCmd      = app.Command("movies", "Browse the movie catalog.")
	moviesList     = moviesCmd.Command("list", "List movies.").Default()
	listQuery      = moviesList.Flag("query", "free-text search").String()
	listGenres     = moviesList.Flag("genres", "genre filter").String()
	listCategory   = moviesList.Flag("category", "category filter").String()
	listSort       = moviesList.Flag("sort", "ordering").Enum(types.SortLatest, types.SortPopular, types.SortRating)
	listPage       = moviesList.Flag("page", "page number").Int()
	listPageSize   = moviesList.Flag("page-size", "page size").Int()
	moviesGet      = moviesCmd.Command("get", "Show one movie.")
	moviesGetID    = moviesGet.Arg("id", "movie id").Required().Int()
	moviesReviews  = moviesCmd.Command("reviews", "List reviews of a movie.")
	moviesRevID    = moviesReviews.Arg("id", "movie id").Required().Int()
	moviesRevPage  = moviesReviews.Flag("page", "page number").Int()
	moviesRevSize  = moviesReviews.Flag("page-size", "page size").Int()
	moviesPopular  = moviesCmd.Command("popular", "Popular movies.")
	popularPage    = moviesPopular.Flag("page", "page number").Default("1").Int()
	moviesLatest   = moviesCmd.Command("latest", "Latest movies.")
	latestPage     = moviesLatest.Flag("page", "page number").Default("1").Int()
	moviesGenre    = moviesCmd.Command("genre", "Movies of one genre.")
	moviesGenreArg = moviesGenre.Arg("genre", "genre label").Required().String()
	genreSort      = moviesGenre.Flag("sort", "ordering").Default(types.SortPopular).Enum(types.SortLatest, types.SortPopular, types.SortRating)
	genrePage      = moviesGenre.Flag("page", "page number").Default("1").Int()

	reviewCmd       = app.Command("review", "Read and write reviews.")
	reviewGet       = reviewCmd.Command("get", "Show one review.")
	reviewGetID     = reviewGet.Arg("id", "review id").Required().Int()
	reviewCreate    = reviewCmd.Command("create", "Review a movie.")
	reviewMovieID   = reviewCreate.Arg("movie-id", "movie id").Required().Int()
	reviewRating    = reviewCreate.Flag("rating", "0.5 to 5.0").Required().Float64()
	reviewContent   = reviewCreate.Flag("content", "review text").String()
	reviewUpdate    = reviewCmd.Command("update", "Change a review.")
	reviewUpdateID  = reviewUpdate.Arg("id", "review id").Required().Int()
	reviewNewRating = reviewUpdate.Flag("rating", "new rating").Float64()
	reviewNewText   = reviewUpdate.Flag("content", "new text").String()
	reviewDelete    = reviewCmd.Command("delete", "Delete a review.")
	reviewDeleteID  = reviewDelete.Arg("id", "review id").Required().Int()
	reviewLike      = reviewCmd.Command("like", "Like or dislike a review.")
	reviewLikeID    = reviewLike.Arg("id", "review id").Required().Int()
	reviewDislike   = reviewLike.Flag("dislike", "send a dislike").Bool()
	reviewComments  = reviewCmd.Command("comments", "List comments on a review.")
	commentsID      = reviewComments.Arg("id", "review id").Required().Int()
	commentsSkip    = reviewComments.Flag("skip", "comments to skip").Int()
	commentsLimit   = reviewComments.Flag("limit", "maximum comments").Int()
	reviewComment   = reviewCmd.Command("comment", "Comment on a review.")
	commentReviewID = reviewComment.Arg("id", "review id").Required().Int()
	commentText     = reviewComment.Arg("content", "comment text").Required().String()

	meCmd        = app.Command("me", "Your account.")
	meShow       = meCmd.Command("show", "Show your account.").Default()
	meUpdate     = meCmd.Command("update", "Change name or avatar text.")
	meName       = meUpdate.Flag("name", "display name").String()
	meAvatar     = meUpdate.Flag("avatar-text", "avatar text").String()
	meReviews    = meCmd.Command("reviews", "Your reviews.")
	mePage       = meReviews.Flag("page", "page number").Int()
	mePageSize   = meReviews.Flag("page-size", "page size").Int()
	meTaste      = meCmd.Command("taste", "Your taste analysis.")
	userCmd      = app.Command("user", "Show another user.")
	userID       = userCmd.Arg("id", "user id").Required().String()
	signupCmd    = app.Command("signup", "Create an account and sign in.")
	signupID     = signupCmd.Flag("id", "user id").Required().String()
	signupName   = signupCmd.Flag("name", "display name").Required().String()
	signupAvatar = signupCmd.Flag("avatar-text", "avatar text").String()
	loginCmd     = app.Command("login", "Print the Kakao login URL.")
	logoutCmd    = app.Command("logout", "Sign out.")
	whoamiCmd    = app.Command("whoami", "Show the local sign-in state.")
)

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalInt(i int) *int {
	if i == 0 {
		return nil
	}
	return &i
}

func optionalFloat(f float64) *float64 {
	if f == 0 {
		return nil
	}
	return &f
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatal(err)
	}
}

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.StoragePath)
	if err != nil {
		log.Fatal("Database connection failed:", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Migration failed:", err)
	}

	identity, err := services.NewIdentityStore(database.NewLocalStore(db))
	if err != nil {
		log.Fatal("Failed to load identity:", err)
	}
	defer identity.Close()

	client := services.NewAPIClientFromConfig(cfg.Backend, identity)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := run(ctx, command, client, identity)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		db.Close()
		os.Exit(1)
	}
	printJSON(result)
}

func currentUser(identity *services.IdentityStore) (string, error) {
	snap := identity.Current()
	if !snap.LoggedIn || snap.UserID == "" {
		return "", fmt.Errorf("not signed in; run 'mw signup' or log in through the web front-end")
	}
	return snap.UserID, nil
}

func run(ctx context.Context, command string, client *services.APIClient, identity *services.IdentityStore) (any, error) {
	switch command {
	case moviesList.FullCommand():
		return client.GetMovies(ctx, types.MovieListParams{
			Query:    optionalString(*listQuery),
			Genres:   optionalString(*listGenres),
			Category: optionalString(*listCategory),
			Sort:     optionalString(*listSort),
			Page:     optionalInt(*listPage),
			PageSize: optionalInt(*listPageSize),
		})
	case moviesGet.FullCommand():
		return client.GetMovie(ctx, *moviesGetID)
	case moviesReviews.FullCommand():
		return client.GetMovieReviews(ctx, *moviesRevID, types.PageParams{
			Page:     optionalInt(*moviesRevPage),
			PageSize: optionalInt(*moviesRevSize),
		})
	case moviesPopular.FullCommand():
		return client.GetPopularMovies(ctx, *popularPage)
	case moviesLatest.FullCommand():
		return client.GetLatestMovies(ctx, *latestPage)
	case moviesGenre.FullCommand():
		return client.GetMoviesByGenre(ctx, *moviesGenreArg, *genreSort, *genrePage)

	case reviewGet.FullCommand():
		return client.GetReview(ctx, *reviewGetID)
	case reviewCreate.FullCommand():
		uid, err := currentUser(identity)
		if err != nil {
			return nil, err
		}
		return client.CreateMovieReview(ctx, *reviewMovieID, uid, types.CreateReviewRequest{
			Rating:  *reviewRating,
			Content: optionalString(*reviewContent),
		})
	case reviewUpdate.FullCommand():
		return client.UpdateReview(ctx, *reviewUpdateID, types.UpdateReviewRequest{
			Rating:  optionalFloat(*reviewNewRating),
			Content: optionalString(*reviewNewText),
		})
	case reviewDelete.FullCommand():
		return client.DeleteReview(ctx, *reviewDeleteID)
	case reviewLike.FullCommand():
		uid, err := currentUser(identity)
		if err != nil {
			return nil, err
		}
		return client.ToggleReviewLike(ctx, *reviewLikeID, uid, !*reviewDislike)
	case reviewComments.FullCommand():
		return client.GetReviewComments(ctx, *commentsID, types.CommentListParams{
			Skip:  optionalInt(*commentsSkip),
			Limit: optionalInt(*commentsLimit),
		})
	case reviewComment.FullCommand():
		uid, err := currentUser(identity)
		if err != nil {
			return nil, err
		}
		return client.CreateReviewComment(ctx, *commentReviewID, uid, types.CreateCommentRequest{Content: *commentText})

	case meShow.FullCommand():
		uid, err := currentUser(identity)
		if err != nil {
			return nil, err
		}
		return client.GetCurrentUser(ctx, uid)
	case meUpdate.FullCommand():
		uid, err := currentUser(identity)
		if err != nil {
			return nil, err
		}
		user, err := client.UpdateCurrentUser(ctx, uid, types.UpdateUserRequest{
			Name:       optionalString(*meName),
			AvatarText: optionalString(*meAvatar),
		})
		if err != nil {
			return nil, err
		}
		if err := identity.MirrorUser(user); err != nil {
			return nil, err
		}
		return user, nil
	case meReviews.FullCommand():
		uid, err := currentUser(identity)
		if err != nil {
			return nil, err
		}
		return client.GetCurrentUserReviews(ctx, uid, types.PageParams{
			Page:     optionalInt(*mePage),
			PageSize: optionalInt(*mePageSize),
		})
	case meTaste.FullCommand():
		uid, err := currentUser(identity)
		if err != nil {
			return nil, err
		}
		return client.GetUserTasteAnalysis(ctx, uid)
	case userCmd.FullCommand():
		return client.GetUser(ctx, *userID)

	case signupCmd.FullCommand():
		user, err := client.CreateUser(ctx, types.CreateUserRequest{
			ID:         *signupID,
			Name:       *signupName,
			AvatarText: optionalString(*signupAvatar),
		})
		if err != nil {
			return nil, err
		}
		snap := services.Snapshot{UserID: user.ID, Name: user.Name}
		if user.AvatarText != nil {
			snap.Bio = *user.AvatarText
		}
		if err := identity.SignIn(snap); err != nil {
			return nil, err
		}
		return user, nil
	case loginCmd.FullCommand():
		return client.GetKakaoLoginURL(ctx)
	case logoutCmd.FullCommand():
		return services.LogOut(ctx, client, identity)
	case whoamiCmd.FullCommand():
		return identity.Current(), nil
	}

	return nil, fmt.Errorf("unknown command %q", command)
}
