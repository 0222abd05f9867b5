package adapthttp

import (
	"net/http"

	"fitlog/internal/app"
)

func (s *Server) handleMain(w http.ResponseWriter, r *http.Request, user string) {
	ctx := r.Context()

	mc, err := s.contexts.Build(ctx, user)
	if err != nil {
		internalError(w, r, err, "build main context")
		return
	}

	if r.Method == http.MethodPost {
		sub := app.Submission{
			Weight:        r.PostFormValue("weight"),
			FatPercentage: r.PostFormValue("fat_percentage"),
			Height:        r.PostFormValue("height"),
			Date:          r.PostFormValue("date"),
		}
		if _, err := s.measurements.Submit(ctx, user, sub, mc.Today); err != nil {
			internalError(w, r, err, "submit measurement")
			return
		}
		if mc, err = s.contexts.Build(ctx, user); err != nil {
			internalError(w, r, err, "build main context")
			return
		}
	}

	render(w, r, "main.html", mc)
}

func (s *Server) handleFitnessTip(w http.ResponseWriter, r *http.Request, user string) {
	mc, err := s.contexts.Build(r.Context(), user)
	if err != nil {
		internalError(w, r, err, "build main context")
		return
	}
	mc.FitnessTip = s.tips.Generate(r.Context(), user, mc.History)
	render(w, r, "main.html", mc)
}
