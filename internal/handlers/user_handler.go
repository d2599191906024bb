// Package handlers implements the HTTP operations of the storefront API.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"greenshop-server/internal/managers"
	"greenshop-server/internal/schemas"
	"greenshop-server/internal/utils"
)

const defaultTokenExpiryHours = 24

type UserHdl interface {
	RegisterUser(c *gin.Context)
	ActivateUser(c *gin.Context)
	LoginUser(c *gin.Context)
	RefreshToken(c *gin.Context)
	ForgotPassword(c *gin.Context)
	ResetPassword(c *gin.Context)
	GetProfile(c *gin.Context)
	UpdateProfile(c *gin.Context)
}

type UserHandler struct {
	DatabaseManager managers.DatabaseMgr
	JWTManager      managers.JWTMgr
	MailManager     managers.MailMgr
}

func NewUserHandler(databaseManager *managers.DatabaseMgr, jwtManager *managers.JWTMgr, mailManager *managers.MailMgr) UserHdl {
	return &UserHandler{
		DatabaseManager: *databaseManager,
		JWTManager:      *jwtManager,
		MailManager:     *mailManager,
	}
}

var errEmailTaken = errors.New("email taken")
var errInvalidToken = errors.New("invalid token")
var errUserNotFound = errors.New("user not found")

// RegisterUser creates a new account in pending-activation state and sends the
// activation link to the user's email. The token itself never appears in the
// response payload; a failed dispatch is logged and does not fail the
// registration.
func (handler *UserHandler) RegisterUser(c *gin.Context) {
	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer utils.RollbackTransaction(c, tx, transactionCtx, cancel, err)

	registrationRequest := c.Value(utils.SanitizedPayloadKey.String()).(*schemas.RegistrationRequest)

	// Check if the email exists
	if !utils.GetValidator().VerifyEmail(registrationRequest.Email) {
		err = errors.New("email unreachable")
		utils.WriteAndLogError(c, schemas.EmailUnreachable, http.StatusBadRequest, err)
		return
	}

	// Check if the email is taken
	if err = checkEmailTaken(transactionCtx, c, tx, registrationRequest.Email, nil); err != nil {
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registrationRequest.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	userId := uuid.New()
	activationToken := uuid.New().String()
	createdAt := time.Now()

	queryString := "INSERT INTO greenshop.users (user_id, full_name, phone, email, password, website, subscribed, email_verified, activation_token, created_at) " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8, $9)"
	if _, err = tx.Exec(transactionCtx, queryString, userId, registrationRequest.FullName, registrationRequest.Phone,
		registrationRequest.Email, hashedPassword, nullableString(registrationRequest.Website),
		registrationRequest.Subscribed, activationToken, createdAt); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	// Best effort only: the account is created even if the mail cannot be sent.
	handler.dispatchActivationMail(registrationRequest.Email, registrationRequest.FullName, userId.String(), activationToken)

	userDto := &schemas.UserDTO{
		UserId:      userId.String(),
		FullName:    registrationRequest.FullName,
		Phone:       registrationRequest.Phone,
		Email:       registrationRequest.Email,
		MaskedEmail: utils.MaskEmail(registrationRequest.Email),
		Website:     nullableString(registrationRequest.Website),
		Subscribed:  registrationRequest.Subscribed,
	}

	utils.WriteAndLogResponse(c, userDto, http.StatusCreated)
}

// ActivateUser consumes the activation token of the user specified in the
// path. The transition is single-use: a second call with the same token fails
// with UserAlreadyActivated.
func (handler *UserHandler) ActivateUser(c *gin.Context) {
	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer utils.RollbackTransaction(c, tx, transactionCtx, cancel, err)

	activationRequest := c.Value(utils.SanitizedPayloadKey.String()).(*schemas.ActivationRequest)

	userId := c.Param(utils.UserIdKey)
	if _, err = uuid.Parse(userId); err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	var fullName, email string
	var emailVerified bool
	var activationToken *string
	queryString := "SELECT full_name, email, email_verified, activation_token FROM greenshop.users WHERE user_id = $1"
	if err = tx.QueryRow(transactionCtx, queryString, userId).Scan(&fullName, &email, &emailVerified, &activationToken); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, errUserNotFound)
		} else {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		}
		return
	}

	// Checked before the token compare: after a successful activation the
	// token is nulled, and a replay must report the activation, not a
	// mismatch.
	if emailVerified {
		err = errors.New("already activated")
		utils.WriteAndLogError(c, schemas.UserAlreadyActivated, http.StatusAlreadyReported, err)
		return
	}

	if activationToken == nil || *activationToken != activationRequest.Token {
		err = errInvalidToken
		utils.WriteAndLogError(c, schemas.InvalidToken, http.StatusUnauthorized, err)
		return
	}

	queryString = "UPDATE greenshop.users SET email_verified = true, activation_token = NULL, activated_at = $1 WHERE user_id = $2"
	if _, err = tx.Exec(transactionCtx, queryString, time.Now(), userId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	tokenDto, err := generateTokenPair(handler.JWTManager, userId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	if mailErr := handler.MailManager.SendConfirmationMail(email, fullName); mailErr != nil {
		log.Warn("Confirmation mail could not be sent: ", mailErr)
	}

	utils.WriteAndLogResponse(c, tokenDto, http.StatusOK)
}

// LoginUser logs in the user specified in the request body and returns the
// profile together with a token pair. No rate limiting, no lockout.
func (handler *UserHandler) LoginUser(c *gin.Context) {
	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer utils.RollbackTransaction(c, tx, transactionCtx, cancel, err)

	loginRequest := c.Value(utils.SanitizedPayloadKey.String()).(*schemas.LoginRequest)

	user, err := fetchUserByEmail(transactionCtx, tx, loginRequest.Email)
	if err != nil {
		if errors.Is(err, errUserNotFound) {
			utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, err)
		} else {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		}
		return
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginRequest.Password)); err != nil {
		utils.WriteAndLogError(c, schemas.InvalidCredentials, http.StatusForbidden, err)
		return
	}

	tokenDto, err := generateTokenPair(handler.JWTManager, user.ID.String())
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	response := &schemas.LoginResponseDTO{
		User:      userDTO(user),
		TokenPair: *tokenDto,
	}

	utils.WriteAndLogResponse(c, response, http.StatusOK)
}

// RefreshToken exchanges a valid refresh token for a fresh token pair.
func (handler *UserHandler) RefreshToken(c *gin.Context) {
	refreshTokenRequest := c.Value(utils.SanitizedPayloadKey.String()).(*schemas.RefreshTokenRequest)

	refreshTokenClaims, err := handler.JWTManager.ValidateJWT(refreshTokenRequest.RefreshToken)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InvalidToken, http.StatusUnauthorized, err)
		return
	}

	refreshClaims := refreshTokenClaims.(jwt.MapClaims)
	userId := refreshClaims["sub"].(string)
	isRefreshToken, _ := refreshClaims["refresh"].(string)

	if isRefreshToken != "true" {
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, errInvalidToken)
		return
	}

	tokenDto, err := generateTokenPair(handler.JWTManager, userId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, tokenDto, http.StatusOK)
}

// ForgotPassword issues a fresh, time-bounded reset token for the account
// with the given email, overwriting any prior pending reset, and dispatches
// the reset link best-effort.
func (handler *UserHandler) ForgotPassword(c *gin.Context) {
	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer utils.RollbackTransaction(c, tx, transactionCtx, cancel, err)

	forgotPasswordRequest := c.Value(utils.SanitizedPayloadKey.String()).(*schemas.ForgotPasswordRequest)

	var userId uuid.UUID
	var fullName string
	queryString := "SELECT user_id, full_name FROM greenshop.users WHERE email = $1"
	if err = tx.QueryRow(transactionCtx, queryString, forgotPasswordRequest.Email).Scan(&userId, &fullName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, errUserNotFound)
		} else {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		}
		return
	}

	resetToken := uuid.New().String()
	resetTokenExpiry := time.Now().Add(time.Duration(tokenExpiryHours()) * time.Hour)

	queryString = "UPDATE greenshop.users SET reset_token = $1, reset_token_expiry = $2 WHERE user_id = $3"
	if _, err = tx.Exec(transactionCtx, queryString, resetToken, resetTokenExpiry, userId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	resetLink := fmt.Sprintf("%s/auth/reset-password?userId=%s&token=%s", origin(), userId.String(), resetToken)
	if mailErr := handler.MailManager.SendResetPasswordMail(forgotPasswordRequest.Email, fullName, resetLink); mailErr != nil {
		log.Warn("Reset password mail could not be sent: ", mailErr)
	}

	c.Status(http.StatusNoContent)
}

// ResetPassword consumes the reset token of the user specified in the path
// and sets the new password. An expired or mismatched token leaves the stored
// password untouched.
func (handler *UserHandler) ResetPassword(c *gin.Context) {
	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer utils.RollbackTransaction(c, tx, transactionCtx, cancel, err)

	resetPasswordRequest := c.Value(utils.SanitizedPayloadKey.String()).(*schemas.ResetPasswordRequest)

	userId := c.Param(utils.UserIdKey)
	if _, err = uuid.Parse(userId); err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	var resetToken *string
	var resetTokenExpiry pgtype.Timestamptz
	queryString := "SELECT reset_token, reset_token_expiry FROM greenshop.users WHERE user_id = $1"
	if err = tx.QueryRow(transactionCtx, queryString, userId).Scan(&resetToken, &resetTokenExpiry); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, errUserNotFound)
		} else {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		}
		return
	}

	if resetToken == nil || *resetToken != resetPasswordRequest.Token {
		err = errInvalidToken
		utils.WriteAndLogError(c, schemas.InvalidToken, http.StatusUnauthorized, err)
		return
	}

	if !resetTokenExpiry.Valid || time.Now().After(resetTokenExpiry.Time) {
		err = errors.New("token expired")
		utils.WriteAndLogError(c, schemas.TokenExpired, http.StatusUnauthorized, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(resetPasswordRequest.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	queryString = "UPDATE greenshop.users SET password = $1, reset_token = NULL, reset_token_expiry = NULL, password_reset_at = $2 WHERE user_id = $3"
	if _, err = tx.Exec(transactionCtx, queryString, hashedPassword, time.Now(), userId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	c.Status(http.StatusNoContent)
}

// GetProfile returns the profile of the authenticated user.
func (handler *UserHandler) GetProfile(c *gin.Context) {
	ctx, cancel := context.WithDeadline(c.Request.Context(), time.Now().Add(10*time.Second))
	defer cancel()

	claims, ok := c.Value(utils.ClaimsKey.String()).(jwt.MapClaims)
	if !ok {
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}
	userId := claims["sub"].(string)

	var user schemas.User
	queryString := "SELECT user_id, full_name, phone, email, website, subscribed, email_verified FROM greenshop.users WHERE user_id = $1"
	row := handler.DatabaseManager.GetPool().QueryRow(ctx, queryString, userId)
	if err := row.Scan(&user.ID, &user.FullName, &user.Phone, &user.Email, &user.Website, &user.Subscribed, &user.EmailVerified); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, errUserNotFound)
		} else {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		}
		return
	}

	dto := userDTO(&user)
	utils.WriteAndLogResponse(c, &dto, http.StatusOK)
}

// UpdateProfile re-validates and persists the mutable profile fields of the
// authenticated user. Changing the email resets the verification state and
// triggers a fresh activation mail.
func (handler *UserHandler) UpdateProfile(c *gin.Context) {
	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer utils.RollbackTransaction(c, tx, transactionCtx, cancel, err)

	updateRequest := c.Value(utils.SanitizedPayloadKey.String()).(*schemas.UpdateProfileRequest)

	claims, ok := c.Value(utils.ClaimsKey.String()).(jwt.MapClaims)
	if !ok {
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}
	userId := claims["sub"].(string)

	var currentEmail string
	var emailVerified bool
	queryString := "SELECT email, email_verified FROM greenshop.users WHERE user_id = $1"
	if err = tx.QueryRow(transactionCtx, queryString, userId).Scan(&currentEmail, &emailVerified); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, errUserNotFound)
		} else {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		}
		return
	}

	emailChanged := updateRequest.Email != currentEmail
	if emailChanged {
		if !utils.GetValidator().VerifyEmail(updateRequest.Email) {
			err = errors.New("email unreachable")
			utils.WriteAndLogError(c, schemas.EmailUnreachable, http.StatusBadRequest, err)
			return
		}

		// Uniqueness check excludes the caller's own current email.
		parsedId, _ := uuid.Parse(userId)
		if err = checkEmailTaken(transactionCtx, c, tx, updateRequest.Email, &parsedId); err != nil {
			return
		}
	}

	var activationToken string
	if emailChanged {
		// The new address must prove itself again.
		activationToken = uuid.New().String()
		queryString = "UPDATE greenshop.users SET full_name = $1, phone = $2, email = $3, website = $4, subscribed = $5, email_verified = false, activation_token = $6 WHERE user_id = $7"
		_, err = tx.Exec(transactionCtx, queryString, updateRequest.FullName, updateRequest.Phone, updateRequest.Email,
			nullableString(updateRequest.Website), updateRequest.Subscribed, activationToken, userId)
	} else {
		queryString = "UPDATE greenshop.users SET full_name = $1, phone = $2, email = $3, website = $4, subscribed = $5 WHERE user_id = $6"
		_, err = tx.Exec(transactionCtx, queryString, updateRequest.FullName, updateRequest.Phone, updateRequest.Email,
			nullableString(updateRequest.Website), updateRequest.Subscribed, userId)
	}
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	if emailChanged {
		handler.dispatchActivationMail(updateRequest.Email, updateRequest.FullName, userId, activationToken)
	}

	userDto := &schemas.UserDTO{
		UserId:        userId,
		FullName:      updateRequest.FullName,
		Phone:         updateRequest.Phone,
		Email:         updateRequest.Email,
		MaskedEmail:   utils.MaskEmail(updateRequest.Email),
		Website:       nullableString(updateRequest.Website),
		Subscribed:    updateRequest.Subscribed,
		EmailVerified: emailVerified && !emailChanged,
	}

	utils.WriteAndLogResponse(c, userDto, http.StatusOK)
}

func (handler *UserHandler) dispatchActivationMail(email, fullName, userId, token string) {
	activationLink := fmt.Sprintf("%s/auth/activate?userId=%s&token=%s", origin(), userId, token)
	if err := handler.MailManager.SendActivationMail(email, fullName, activationLink); err != nil {
		log.Warn("Activation mail could not be sent: ", err)
	}
}

// checkEmailTaken checks whether the email belongs to any account other than
// the excluded one.
func checkEmailTaken(ctx context.Context, c *gin.Context, tx pgx.Tx, email string, exclude *uuid.UUID) error {
	var queryString string
	var rows pgx.Rows
	var err error

	if exclude == nil {
		queryString = "SELECT user_id FROM greenshop.users WHERE email = $1"
		rows, err = tx.Query(ctx, queryString, email)
	} else {
		queryString = "SELECT user_id FROM greenshop.users WHERE email = $1 AND user_id <> $2"
		rows, err = tx.Query(ctx, queryString, email, *exclude)
	}
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return err
	}
	defer rows.Close()

	if rows.Next() {
		utils.WriteAndLogError(c, schemas.EmailTaken, http.StatusConflict, errEmailTaken)
		return errEmailTaken
	}

	return nil
}

// fetchUserByEmail retrieves the account with the given email.
func fetchUserByEmail(ctx context.Context, tx pgx.Tx, email string) (*schemas.User, error) {
	user := &schemas.User{}
	queryString := "SELECT user_id, full_name, phone, email, password, website, subscribed, email_verified FROM greenshop.users WHERE email = $1"
	err := tx.QueryRow(ctx, queryString, email).Scan(&user.ID, &user.FullName, &user.Phone, &user.Email,
		&user.Password, &user.Website, &user.Subscribed, &user.EmailVerified)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// generateTokenPair generates a token pair for the given user.
func generateTokenPair(jwtManager managers.JWTMgr, userId string) (*schemas.TokenPairDTO, error) {
	token, err := jwtManager.GenerateJWT(userId, false)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwtManager.GenerateJWT(userId, true)
	if err != nil {
		return nil, err
	}

	return &schemas.TokenPairDTO{
		Token:        token,
		RefreshToken: refreshToken,
	}, nil
}

func userDTO(user *schemas.User) schemas.UserDTO {
	return schemas.UserDTO{
		UserId:        user.ID.String(),
		FullName:      user.FullName,
		Phone:         user.Phone,
		Email:         user.Email,
		MaskedEmail:   utils.MaskEmail(user.Email),
		Website:       user.Website,
		Subscribed:    user.Subscribed,
		EmailVerified: user.EmailVerified,
	}
}

func nullableString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func origin() string {
	if origin := os.Getenv("ORIGIN"); origin != "" {
		return origin
	}
	return "http://localhost:5173"
}

func tokenExpiryHours() int {
	hours, err := strconv.Atoi(os.Getenv("TOKEN_EXPIRY_HOURS"))
	if err != nil || hours < 1 {
		return defaultTokenExpiryHours
	}
	return hours
}
