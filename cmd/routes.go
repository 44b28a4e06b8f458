package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("user"))

	mux := pat.New()

	// Users
	mux.Post("/user/sign_up", standardMiddleware.ThenFunc(app.userHandler.SignUp))
	mux.Post("/user/sign_in", standardMiddleware.ThenFunc(app.userHandler.SignIn))
	mux.Post("/user/refresh", standardMiddleware.ThenFunc(app.userHandler.Refresh))
	mux.Post("/user/logout", standardMiddleware.ThenFunc(app.userHandler.LogOut))
	mux.Get("/user/:id", authMiddleware.ThenFunc(app.userHandler.GetUserByID))
	mux.Put("/user/:id", authMiddleware.ThenFunc(app.userHandler.UpdateUser))
	mux.Post("/user/notify_token", authMiddleware.ThenFunc(app.userHandler.RegisterNotifyToken))
	mux.Del("/user/notify_token", authMiddleware.ThenFunc(app.userHandler.RemoveNotifyToken))

	// Ads
	mux.Post("/ad", authMiddleware.ThenFunc(app.adHandler.CreateAd))
	mux.Get("/ad/search", standardMiddleware.ThenFunc(app.adHandler.SearchAds))
	mux.Get("/ad/options", standardMiddleware.ThenFunc(app.adHandler.GetAdOptions))
	mux.Get("/ad/mine", authMiddleware.ThenFunc(app.adHandler.GetMyAds))
	mux.Get("/ad/:id", standardMiddleware.ThenFunc(app.adHandler.GetAdByID))
	mux.Put("/ad/:id", authMiddleware.ThenFunc(app.adHandler.UpdateAd))
	mux.Del("/ad/:id", authMiddleware.ThenFunc(app.adHandler.DeleteAd))
	mux.Get("/ad", standardMiddleware.ThenFunc(app.adHandler.GetAds))
	mux.Post("/ad/:id/image", authMiddleware.ThenFunc(app.adHandler.UploadAdImage))

	// Exchanges
	mux.Post("/exchange", authMiddleware.ThenFunc(app.exchangeHandler.CreateExchange))
	mux.Get("/exchange/resolved", authMiddleware.ThenFunc(app.exchangeHandler.GetResolvedExchanges))
	mux.Get("/exchange/rejected", authMiddleware.ThenFunc(app.exchangeHandler.GetRejectedExchanges))
	mux.Get("/exchange/mine", authMiddleware.ThenFunc(app.exchangeHandler.GetMyExchanges))
	mux.Get("/exchange/incoming", authMiddleware.ThenFunc(app.exchangeHandler.GetIncomingExchanges))
	mux.Put("/exchange/:id/accept", authMiddleware.ThenFunc(app.exchangeHandler.AcceptExchange))
	mux.Put("/exchange/:id/decline", authMiddleware.ThenFunc(app.exchangeHandler.DeclineExchange))
	mux.Del("/exchange/:id", authMiddleware.ThenFunc(app.exchangeHandler.WithdrawExchange))

	return standardMiddleware.Then(mux)
}
