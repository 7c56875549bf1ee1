package service

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Poohpo313/Sana/internal/model"
)

// Credentials are stored and compared as plain text. The data never
// leaves the local database file; hardening the store is out of scope.

type SignupInput struct {
	Name           string
	Age            int
	Email          string
	Password       string
	ProfilePicture string
}

type UpdateProfileInput struct {
	Name           string
	Age            int
	Password       string
	ProfilePicture string
}

func Signup(db *sql.DB, in SignupInput) (*model.UserProfile, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if err := validateNonNegativeInt("age", in.Age); err != nil {
		return nil, err
	}
	in.Email = normalizeEmail(in.Email)
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if in.Password == "" {
		return nil, fmt.Errorf("password is required")
	}

	// Signing up with an existing email replaces that account, matching
	// the profile-setup flow this store descends from.
	_, err := db.Exec(`
INSERT INTO users(email, name, age, password, profile_picture, profile_set)
VALUES(?, ?, ?, ?, ?, 1)
ON CONFLICT(email) DO UPDATE SET
  name=excluded.name,
  age=excluded.age,
  password=excluded.password,
  profile_picture=excluded.profile_picture,
  profile_set=1,
  updated_at=CURRENT_TIMESTAMP
`, in.Email, in.Name, in.Age, in.Password, strings.TrimSpace(in.ProfilePicture))
	if err != nil {
		return nil, fmt.Errorf("save user %q: %w", in.Email, err)
	}

	if err := SetConfig(db, ConfigActiveUser, in.Email); err != nil {
		return nil, err
	}
	return getUser(db, in.Email)
}

// Login activates the session for the matching account. A nil profile
// with nil error means the credentials did not match any stored account.
func Login(db *sql.DB, email, password string) (*model.UserProfile, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	u, err := getUser(db, email)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Password != password {
		return nil, nil
	}
	if err := SetConfig(db, ConfigActiveUser, email); err != nil {
		return nil, err
	}
	return u, nil
}

// Logout clears the active session only; stored accounts are kept.
func Logout(db *sql.DB) error {
	return DeleteConfig(db, ConfigActiveUser)
}

// ActiveProfile returns the logged-in user, or nil when no session is
// active or the session points at a deleted account.
func ActiveProfile(db *sql.DB) (*model.UserProfile, error) {
	email, ok, err := GetConfig(db, ConfigActiveUser)
	if err != nil {
		return nil, err
	}
	if !ok || email == "" {
		return nil, nil
	}
	return getUser(db, email)
}

func UpdateProfile(db *sql.DB, in UpdateProfileInput) (*model.UserProfile, error) {
	current, err := ActiveProfile(db)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("no active session; log in first")
	}

	// Blank fields keep the stored value.
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = current.Name
	}
	age := current.Age
	if in.Age > 0 {
		age = in.Age
	}
	password := current.Password
	if in.Password != "" {
		password = in.Password
	}
	picture := current.ProfilePicture
	if strings.TrimSpace(in.ProfilePicture) != "" {
		picture = strings.TrimSpace(in.ProfilePicture)
	}

	_, err = db.Exec(`
UPDATE users
SET name = ?, age = ?, password = ?, profile_picture = ?, profile_set = 1, updated_at = CURRENT_TIMESTAMP
WHERE email = ?
`, name, age, password, picture, current.Email)
	if err != nil {
		return nil, fmt.Errorf("update user %q: %w", current.Email, err)
	}
	return getUser(db, current.Email)
}

func getUser(db *sql.DB, email string) (*model.UserProfile, error) {
	var u model.UserProfile
	var profileSet int
	err := db.QueryRow(`
SELECT email, name, age, password, profile_picture, profile_set, created_at, updated_at
FROM users
WHERE email = ?
`, normalizeEmail(email)).Scan(&u.Email, &u.Name, &u.Age, &u.Password, &u.ProfilePicture, &profileSet, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user %q: %w", email, err)
	}
	u.ProfileSet = profileSet != 0
	return &u, nil
}

func listUsers(db *sql.DB) ([]model.UserProfile, error) {
	rows, err := db.Query(`
SELECT email, name, age, password, profile_picture, profile_set, created_at, updated_at
FROM users
ORDER BY email ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.UserProfile, 0)
	for rows.Next() {
		var u model.UserProfile
		var profileSet int
		if err := rows.Scan(&u.Email, &u.Name, &u.Age, &u.Password, &u.ProfilePicture, &profileSet, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.ProfileSet = profileSet != 0
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}
