// ABOUTME: Creator CLI commands
// ABOUTME: Human-friendly commands for adding, listing, updating, advancing, and deleting creators
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/harperreed/stacked/db"
	"github.com/harperreed/stacked/models"
)

// creatorFlags binds every editable creator field to a flag set.
type creatorFlags struct {
	name        *string
	email       *string
	phone       *string
	category    *string
	phaseNumber *int
	cardsSold   *int
	totalCards  *int
	cardPrice   *float64
	daysInPhase *int
	nextTask    *string
	velocity    *string
	avatar      *string
	bio         *string
	instagram   *string
	twitter     *string
	youtube     *string
	tiktok      *string
	launchDate  *string
	audience    *string
	contentPlan *string
}

func bindCreatorFlags(fs *flag.FlagSet) *creatorFlags {
	return &creatorFlags{
		name:        fs.String("name", "", "Creator name"),
		email:       fs.String("email", "", "Email address"),
		phone:       fs.String("phone", "", "Phone number"),
		category:    fs.String("category", "", "Category (Gaming, Music, Streaming, ...)"),
		phaseNumber: fs.Int("phase-number", 0, "Pipeline phase 0-4"),
		cardsSold:   fs.Int("cards-sold", 0, "Cards sold"),
		totalCards:  fs.Int("total-cards", models.DefaultTotalCards, "Total cards in the run"),
		cardPrice:   fs.Float64("card-price", 0, "Price per card"),
		daysInPhase: fs.Int("days-in-phase", 0, "Days in current phase"),
		nextTask:    fs.String("next-task", "", "Next task"),
		velocity:    fs.String("velocity", models.VelocityPending, "Sales velocity (High, Medium, Low, Pending)"),
		avatar:      fs.String("avatar", models.DefaultAvatar, "Avatar glyph"),
		bio:         fs.String("bio", "", "Short bio"),
		instagram:   fs.String("instagram", "", "Instagram handle"),
		twitter:     fs.String("twitter", "", "Twitter handle"),
		youtube:     fs.String("youtube", "", "YouTube channel"),
		tiktok:      fs.String("tiktok", "", "TikTok handle"),
		launchDate:  fs.String("launch-date", "", "Launch date (YYYY-MM-DD)"),
		audience:    fs.String("audience", "", "Target audience"),
		contentPlan: fs.String("content-plan", "", "Content plan"),
	}
}

// apply copies the flags the user actually passed onto c.
func (f *creatorFlags) apply(fs *flag.FlagSet, c *models.Creator) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "name":
			c.Name = *f.name
		case "email":
			c.Email = *f.email
		case "phone":
			c.Phone = *f.phone
		case "category":
			c.Category = *f.category
		case "phase-number":
			c.PhaseNumber = *f.phaseNumber
			c.Phase = models.PhaseLabel(*f.phaseNumber)
		case "cards-sold":
			c.CardsSold = *f.cardsSold
		case "total-cards":
			c.TotalCards = *f.totalCards
		case "card-price":
			c.CardPrice = *f.cardPrice
		case "days-in-phase":
			c.DaysInPhase = *f.daysInPhase
		case "next-task":
			c.NextTask = *f.nextTask
		case "velocity":
			c.SalesVelocity = *f.velocity
		case "avatar":
			c.Avatar = *f.avatar
		case "bio":
			c.Bio = *f.bio
		case "instagram":
			c.SocialMedia.Instagram = *f.instagram
		case "twitter":
			c.SocialMedia.Twitter = *f.twitter
		case "youtube":
			c.SocialMedia.YouTube = *f.youtube
		case "tiktok":
			c.SocialMedia.TikTok = *f.tiktok
		case "launch-date":
			c.Strategy.LaunchDate = *f.launchDate
		case "audience":
			c.Strategy.TargetAudience = *f.audience
		case "content-plan":
			c.Strategy.ContentPlan = *f.contentPlan
		}
	})
}

func parseCreatorID(fs *flag.FlagSet) (int64, error) {
	if fs.NArg() < 1 {
		return 0, fmt.Errorf("creator ID is required")
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid creator ID: %w", err)
	}
	return id, nil
}

func loadCreator(database *sql.DB, id int64) (*models.Creator, error) {
	c, err := db.GetCreator(database, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("creator not found: %d", id)
	}
	return c, nil
}

// AddCreatorCommand adds a new creator.
func AddCreatorCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-creator", flag.ContinueOnError)
	flags := bindCreatorFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *flags.name == "" {
		return fmt.Errorf("--name is required")
	}

	creator := models.NewCreator(*flags.name, time.Now())
	flags.apply(fs, &creator)

	if err := db.CreateCreator(database, &creator); err != nil {
		return fmt.Errorf("failed to create creator: %w", err)
	}

	fmt.Printf("✓ Creator created: %s (ID: %d)\n", creator.Name, creator.ID)
	fmt.Printf("  Phase: %s\n", creator.Phase)
	if creator.Category != "" {
		fmt.Printf("  Category: %s\n", creator.Category)
	}
	if creator.Email != "" {
		fmt.Printf("  Email: %s\n", creator.Email)
	}

	return nil
}

// ListCreatorsCommand lists creators.
func ListCreatorsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-creators", flag.ContinueOnError)
	query := fs.String("query", "", "Search by name or category")
	phase := fs.Int("phase", -1, "Filter by phase number")
	limit := fs.Int("limit", 50, "Maximum results")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var phasePtr *int
	if *phase >= 0 {
		phasePtr = phase
	}

	creators, err := db.FindCreators(database, *query, phasePtr, *limit)
	if err != nil {
		return fmt.Errorf("failed to find creators: %w", err)
	}

	if len(creators) == 0 {
		fmt.Println("No creators found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPHASE\tSOLD\tREVENUE\tVELOCITY")
	_, _ = fmt.Fprintln(w, "--\t----\t--------\t-----\t----\t-------\t--------")

	for _, c := range creators {
		category := c.Category
		if category == "" {
			category = "-"
		}
		_, _ = fmt.Fprintf(w, "%d\t%s %s\t%s\t%s\t%d/%d (%d%%)\t$%.2f\t%s\n",
			c.ID, c.Avatar, c.Name, category, c.Phase, c.CardsSold, c.TotalCards,
			c.ProgressPercentage(), c.Revenue(), c.SalesVelocity)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d creator(s)\n", len(creators))
	return nil
}

// UpdateCreatorCommand updates the fields passed as flags.
func UpdateCreatorCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("update-creator", flag.ContinueOnError)
	flags := bindCreatorFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := parseCreatorID(fs)
	if err != nil {
		return err
	}

	creator, err := loadCreator(database, id)
	if err != nil {
		return err
	}

	flags.apply(fs, creator)
	creator.LastUpdated = time.Now().Format(models.DateLayout)

	if err := db.UpdateCreator(database, creator); err != nil {
		return fmt.Errorf("failed to update creator: %w", err)
	}

	fmt.Printf("✓ Creator updated: %s (ID: %d)\n", creator.Name, creator.ID)
	return nil
}

// AdvanceCreatorCommand moves a creator to the next pipeline phase.
func AdvanceCreatorCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("advance-creator", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := parseCreatorID(fs)
	if err != nil {
		return err
	}

	creator, err := loadCreator(database, id)
	if err != nil {
		return err
	}

	if !creator.AdvancePhase(time.Now()) {
		return fmt.Errorf("creator %s is already in the final phase", creator.Name)
	}

	if err := db.UpdateCreator(database, creator); err != nil {
		return fmt.Errorf("failed to update creator: %w", err)
	}

	fmt.Printf("✓ %s advanced to %s\n", creator.Name, creator.Phase)
	return nil
}

// DeleteCreatorCommand deletes a creator.
func DeleteCreatorCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("delete-creator", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := parseCreatorID(fs)
	if err != nil {
		return err
	}

	creator, err := loadCreator(database, id)
	if err != nil {
		return err
	}

	if err := db.DeleteCreator(database, id); err != nil {
		return fmt.Errorf("failed to delete creator: %w", err)
	}

	fmt.Printf("✓ Creator deleted: %s (ID: %d)\n", creator.Name, id)
	return nil
}
