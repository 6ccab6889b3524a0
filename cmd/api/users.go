package main

import (
	"fmt"
	"net/http"
	"time"

	"cariri/internal/store"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type userKey string

const userCtx userKey = "user"

func getUserFromContext(r *http.Request) *store.User {
	user, _ := r.Context().Value(userCtx).(*store.User)
	return user
}

// for cloudinary uploadParams
func boolPtr(b bool) *bool {
	return &b
}

// UpdateUser godoc
//
//	@Summary		Update user information
//	@Description	Update user information such as name, phone, city and bio
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object	true	"Request body containing fields to update: name, phone, city, bio"
//	@Success		204		{string}	string	"User info updated successfully"
//	@Failure		400		{object}	error	"Bad request, update values can't be nil"
//	@Failure		404		{object}	error	"User not found"
//	@Failure		500		{object}	error	"Internal server error"
//	@Security		ApiKeyAuth
//	@Router			/users [put]
func (app *application) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	userID := user.ID
	var payload struct {
		Name  *string `json:"name"`
		Phone *string `json:"phone"`
		City  *string `json:"city"`
		Bio   *string `json:"bio"`
	}

	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// Create update map dynamically
	updates := make(map[string]interface{})
	if payload.Name != nil {
		updates["name"] = *payload.Name
	}
	if payload.Phone != nil {
		updates["phone"] = *payload.Phone
	}
	if payload.City != nil {
		updates["city"] = *payload.City
	}
	if payload.Bio != nil {
		updates["bio"] = *payload.Bio
	}

	if len(updates) == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("no fields to update"))
		return
	}

	if err := app.store.Users.UpdateUser(r.Context(), userID, updates); err != nil {
		switch err {
		case store.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.badRequestResponse(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusNoContent, ""); err != nil {
		app.internalServerError(w, r, err)
	}
}

// uploadProfilePictureHandler godoc
//
//	@Summary		Upload profile picture
//	@Description	Uploads a user's profile picture, saves the URL in the database and deletes the previous picture from Cloudinary
//	@Tags			users
//	@Accept			mpfd
//	@Produce		json
//	@Param			profile_picture	formData	file	true	"Profile picture file size limit is 2MB"
//	@Success		200				{string}	string	"Secure URL of the uploaded picture"
//	@Failure		400				{object}	error	"Unable to parse form or retrieve file"
//	@Failure		500				{object}	error	"Failed to upload image to Cloudinary or save URL in database"
//	@Security		ApiKeyAuth
//	@Router			/users/profile-picture [post]
func (app *application) uploadProfilePictureHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	userID := user.ID

	// Parse the multipart form
	err := r.ParseMultipartForm(2 << 20) // 2 MB
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("unable to parse form, file size limit is 2MB"))
		return
	}

	// Retrieve the file from the form data
	file, fileHeader, err := r.FormFile("profile_picture")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("unable to retrieve file"))
		return
	}
	defer file.Close()

	// Validate file type (allow only JPEG & PNG)
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" {
		app.badRequestResponse(w, r, fmt.Errorf("only JPEG and PNG images are allowed"))
		return
	}

	oldURL, err := app.store.Users.GetProfilePictureURL(r.Context(), userID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	// Timestamped public ID; the previous picture is deleted once the new
	// one is saved.
	uploadParams := uploader.UploadParams{
		PublicID:       fmt.Sprintf("user_%d_%d", userID, time.Now().UnixNano()),
		Overwrite:      boolPtr(false),
		Folder:         "profile_pictures",
		Transformation: "w_300,h_300,c_fill,q_auto",
	}
	uploadResult, err := app.cld.Upload.Upload(r.Context(), file, uploadParams)
	if err != nil {
		app.internalServerError(w, r, fmt.Errorf("failed to upload image: %w", err))
		return
	}

	if err := app.store.Users.SetProfilePicture(r.Context(), uploadResult.SecureURL, userID); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if oldURL != "" {
		if err := app.deletePhotoFromCloudinary(oldURL); err != nil {
			app.logger.Errorw("failed to delete old profile picture", "user_id", userID, "url", oldURL, "error", err)
		}
	}

	if err := app.jsonResponse(w, http.StatusOK, uploadResult.SecureURL); err != nil {
		app.internalServerError(w, r, err)
	}
}

// logoutHandler godoc
//
//	@Summary		Logs a user out
//	@Description	Clears the stored refresh token so it can no longer be exchanged
//	@Tags			users
//	@Produce		json
//	@Success		204	{string}	string	"Logged out"
//	@Failure		500	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/users/logout [post]
func (app *application) logoutHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	if err := app.store.Users.SetRefreshToken(r.Context(), user.ID, ""); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusNoContent, ""); err != nil {
		app.internalServerError(w, r, err)
	}
}
