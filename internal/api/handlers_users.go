package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"travelia/internal/database"
	"travelia/internal/service"
)

// Register arrives as multipart form data because the frontend attaches
// an optional profile photo alongside the text fields.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filename, err := s.optionalUpload(r, "foto")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Form tidak valid")
		return
	}
	photo := ""
	if filename != "" {
		photo = "/uploads/" + filename
	}

	user, err := s.users.Register(r.Context(),
		r.FormValue("nama"),
		r.FormValue("email"),
		r.FormValue("password"),
		photo,
	)
	if errors.Is(err, database.ErrEmailTaken) {
		writeMessage(w, http.StatusBadRequest, "Email sudah digunakan")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Gagal register")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Berhasil register",
		"user":    user,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Body tidak valid")
		return
	}

	user, err := s.users.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, database.ErrUserNotFound) {
		writeMessage(w, http.StatusNotFound, "User tidak ditemukan")
		return
	}
	if errors.Is(err, service.ErrWrongPassword) {
		writeMessage(w, http.StatusUnauthorized, "Password salah")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Gagal login")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login berhasil",
		"user":    user,
	})
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Body tidak valid")
		return
	}

	if err := s.users.AdminLogin(r.Context(), req.Username, req.Password); err != nil {
		writeMessage(w, http.StatusUnauthorized, "Login admin gagal")
		return
	}
	writeMessage(w, http.StatusOK, "Login admin berhasil")
}

func (s *Server) handleAdminRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Body tidak valid")
		return
	}

	err := s.users.AdminRegister(r.Context(), req.Username, req.Password)
	if errors.Is(err, database.ErrAdminExists) {
		writeMessage(w, http.StatusBadRequest, "Username admin sudah digunakan")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Gagal register admin")
		return
	}
	writeMessage(w, http.StatusOK, "Admin berhasil didaftarkan")
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	username := r.URL.Query().Get("username")
	if username == "" {
		writeMessage(w, http.StatusBadRequest, "Username diperlukan")
		return
	}

	user, err := s.users.Profile(r.Context(), username)
	if errors.Is(err, database.ErrUserNotFound) {
		writeMessage(w, http.StatusNotFound, "Pengguna tidak ditemukan")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Gagal membaca profil")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"username": user.Username,
		"nama":     user.Name,
		"photo":    user.Photo,
		"phone":    user.Phone,
		"alamat":   user.Address,
		"lahir":    user.Birth,
		"gender":   user.Gender,
	})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filename, err := s.optionalUpload(r, "foto")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Form tidak valid")
		return
	}

	email := r.FormValue("email")
	if email == "" {
		writeMessage(w, http.StatusBadRequest, "Email wajib dikirim untuk update profile")
		return
	}

	update := service.ProfileUpdate{
		Phone:   r.FormValue("phone"),
		Address: r.FormValue("alamat"),
		Birth:   r.FormValue("lahir"),
		Gender:  r.FormValue("gender"),
	}
	if filename != "" {
		update.Photo = "/uploads/" + filename
	}

	err = s.users.UpdateProfile(r.Context(), email, update)
	if errors.Is(err, database.ErrUserNotFound) {
		writeMessage(w, http.StatusNotFound, "Pengguna tidak ditemukan")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Gagal memperbarui profil")
		return
	}
	writeMessage(w, http.StatusOK, "✅ Profil berhasil diperbarui")
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	users, err := s.users.ListUsers(r.Context())
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Gagal membaca pengguna")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		IDUser string `json:"id_user"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Body tidak valid")
		return
	}

	err := s.users.DeleteUser(r.Context(), req.IDUser)
	if errors.Is(err, database.ErrUserNotFound) {
		writeMessage(w, http.StatusNotFound, "Pengguna tidak ditemukan")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Gagal menghapus pengguna")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Pengguna dihapus"})
}
