package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/anvaya-club/anvaya/internal/models"
	"github.com/anvaya-club/anvaya/internal/store"
)

// DefaultWings are the club's five wings. Seeding them is idempotent: a wing
// whose slug already exists is left untouched.
var DefaultWings = []models.Wing{
	{
		Name:    "CodeZero",
		Slug:    "codezero",
		About:   "CodeZero is the technical wing of Anvaya Club, dedicated to promoting coding culture and technical skills among students. We organize workshops, hackathons, and coding competitions to enhance programming proficiency.",
		Vision:  "To create a vibrant community of skilled programmers and problem solvers who contribute to technological advancement.",
		Mission: "To organize regular coding workshops, hackathons, and technical sessions that empower students with cutting-edge programming skills and industry-relevant knowledge.",
	},
	{
		Name:    "Kalavaibhava",
		Slug:    "kalavaibhava",
		About:   "Kalavaibhava is the cultural wing of Anvaya Club, celebrating arts, traditions, and cultural diversity. We organize cultural events, competitions, and festivals to showcase student talent.",
		Vision:  "To preserve and promote rich cultural heritage while fostering creativity and artistic expression among students.",
		Mission: "To conduct diverse cultural events, competitions, and celebrations that provide a platform for students to explore and exhibit their artistic talents.",
	},
	{
		Name:    "SheSpark",
		Slug:    "shespark",
		About:   "SheSpark is dedicated to women empowerment in technology and engineering. We create an inclusive environment that supports and encourages women students in their academic and professional journey.",
		Vision:  "To build a strong community of empowered women leaders in technology who inspire and mentor future generations.",
		Mission: "To provide mentorship, networking opportunities, and skill development programs that empower women students to excel in technology and leadership roles.",
	},
	{
		Name:    "UGRS",
		Slug:    "ugrs",
		About:   "UGRS (Undergraduate Research Society) is focused on promoting research culture among undergraduate students. We facilitate research projects, paper publications, and academic collaborations.",
		Vision:  "To establish a thriving research ecosystem that encourages undergraduate students to contribute to scientific knowledge and innovation.",
		Mission: "To support student research initiatives, facilitate paper publications, and create opportunities for collaboration with industry and academia.",
	},
	{
		Name:    "Udbhava",
		Slug:    "udbhava",
		About:   "Udbhava is the innovation and entrepreneurship wing of Anvaya Club. We nurture startup ideas, foster innovation, and support student entrepreneurs in building their ventures.",
		Vision:  "To cultivate an entrepreneurial mindset and create successful startups that solve real-world problems and contribute to economic growth.",
		Mission: "To provide incubation support, mentorship, and resources for student startups while organizing innovation challenges and entrepreneurship workshops.",
	},
}

// SeedWings inserts any missing default wing and returns how many were new.
func SeedWings(ctx context.Context, st *store.Store, logger *slog.Logger) (int, error) {
	added := 0
	for _, wing := range DefaultWings {
		inserted, err := st.EnsureWing(ctx, wing)
		if err != nil {
			return added, fmt.Errorf("seed wing %s: %w", wing.Slug, err)
		}
		if inserted {
			added++
			logger.InfoContext(ctx, "wing seeded", slog.String("slug", wing.Slug))
		}
	}
	return added, nil
}

// Seed handles POST /api/admin/seed
func (s *Server) Seed(w http.ResponseWriter, r *http.Request) {
	added, err := SeedWings(r.Context(), s.Store, s.logger())
	if err != nil {
		s.internalError(w, r, "seed wings", err)
		return
	}
	total, err := s.Store.CountWings(r.Context())
	if err != nil {
		s.internalError(w, r, "count wings", err)
		return
	}
	respond(w, http.StatusOK, map[string]int{"added": added, "total": total})
}
