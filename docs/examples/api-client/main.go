// Userdock API Client Example
//
// This is a minimal example of driving the Userdock user API from Go.
//
// Usage:
//
//	export USERDOCK_BASE_URL="http://localhost:8080"
//	go run main.go

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// User mirrors the API's user representation.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func main() {
	baseURL := os.Getenv("USERDOCK_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	client := &http.Client{Timeout: 10 * time.Second}

	// 1. Create a user
	created, err := createUser(client, baseURL, "Example User", fmt.Sprintf("example-%d@example.com", time.Now().Unix()))
	if err != nil {
		log.Fatalf("create user: %v", err)
	}
	log.Printf("created user %d (%s)", created.ID, created.Email)

	// 2. List all users
	users, err := listUsers(client, baseURL)
	if err != nil {
		log.Fatalf("list users: %v", err)
	}
	log.Printf("listing has %d users", len(users))

	// 3. Rename the user (partial update; email is left untouched)
	if err := updateUser(client, baseURL, created.ID, map[string]string{"name": "Renamed User"}); err != nil {
		log.Fatalf("update user: %v", err)
	}
	log.Printf("renamed user %d", created.ID)

	// 4. Read it back
	fetched, err := getUser(client, baseURL, created.ID)
	if err != nil {
		log.Fatalf("get user: %v", err)
	}
	log.Printf("user %d is now %q <%s>", fetched.ID, fetched.Name, fetched.Email)

	// 5. Clean up
	if err := deleteUser(client, baseURL, created.ID); err != nil {
		log.Fatalf("delete user: %v", err)
	}
	log.Printf("deleted user %d", created.ID)
}

func createUser(client *http.Client, baseURL, name, email string) (*User, error) {
	payload, _ := json.Marshal(map[string]string{"name": name, "email": email})

	resp, err := client.Post(baseURL+"/users", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, apiError(resp)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func listUsers(client *http.Client, baseURL string) ([]User, error) {
	resp, err := client.Get(baseURL + "/users")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var users []User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, err
	}
	return users, nil
}

func getUser(client *http.Client, baseURL string, id int64) (*User, error) {
	resp, err := client.Get(fmt.Sprintf("%s/users/%d", baseURL, id))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func updateUser(client *http.Client, baseURL string, id int64, fields map[string]string) error {
	payload, _ := json.Marshal(fields)

	req, err := http.NewRequest(http.MethodPut, fmt.Sprintf("%s/users/%d", baseURL, id), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}

func deleteUser(client *http.Client, baseURL string, id int64) error {
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/users/%d", baseURL, id), nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return apiError(resp)
	}
	return nil
}

func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
}
