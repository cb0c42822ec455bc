package uploads

import (
	"fmt"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/divluffy/lightforgaza/utils"
)

// Accepted image extensions for campaign images and avatars.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

const maxImageBytes = 5 << 20 // 5 MiB

type UploadController struct {
	Store *utils.ObjectStore
}

func NewUploadController(store *utils.ObjectStore) *UploadController {
	return &UploadController{Store: store}
}

// Image accepts a multipart image upload, stores it in object storage and
// returns a presigned URL.
func (c *UploadController) Image(w http.ResponseWriter, r *http.Request) {
	if c.Store == nil {
		utils.WriteJSON(w, http.StatusServiceUnavailable, utils.APIResponse{Success: false, Message: "Uploads are not available"})
		return
	}
	userID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid multipart form"})
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Missing image file"})
		return
	}
	defer file.Close()

	if header.Size > maxImageBytes {
		utils.WriteJSON(w, http.StatusRequestEntityTooLarge, utils.APIResponse{Success: false, Message: "Image exceeds 5 MiB"})
		return
	}
	ext := strings.ToLower(path.Ext(header.Filename))
	if !allowedExtensions[ext] {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Unsupported image format"})
		return
	}

	// When replacing an image the client sends the old object name. Users may
	// only delete objects under their own prefix.
	previous := r.FormValue("previous")
	if previous != "" && !strings.HasPrefix(previous, "images/"+userID+"/") {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid previous object name"})
		return
	}

	objectName := fmt.Sprintf("images/%s/%s%s", userID, uuid.NewString(), ext)
	if err := c.Store.Upload(r.Context(), objectName, file); err != nil {
		log.Printf("[uploads] upload error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Upload failed"})
		return
	}

	if previous != "" {
		// Best effort, the new object is already stored.
		if err := c.Store.Delete(r.Context(), previous); err != nil {
			log.Printf("[uploads] delete replaced object %s: %v", previous, err)
		}
	}

	url, err := c.Store.SignedURL(r.Context(), objectName, 7*24*time.Hour)
	if err != nil {
		log.Printf("[uploads] presign error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Upload failed"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Image uploaded",
		Data: map[string]interface{}{
			"object": objectName,
			"url":    url,
		},
	})
}
