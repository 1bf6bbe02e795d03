package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

var baseURL = getEnv("SMOKE_BASE_URL", "http://localhost:3000/api")

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, map[string]interface{}, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	var decoded map[string]interface{}
	_ = json.Unmarshal(raw, &decoded)
	return resp, decoded, nil
}

func step(title, method, url, token string, body interface{}) map[string]interface{} {
	color.Yellow("\n%s", title)
	resp, decoded, err := sendRequest(method, url, token, body)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode >= 500 {
		color.Red("Status: %s", resp.Status)
	} else {
		color.Green("Status: %s", resp.Status)
	}
	prettyPrint(decoded)
	return decoded
}

func data(resp map[string]interface{}) map[string]interface{} {
	if d, ok := resp["data"].(map[string]interface{}); ok {
		return d
	}
	return map[string]interface{}{}
}

func main() {
	color.Cyan("Starting HR FAQ smoke test against %s\n", baseURL)

	step("1. Health", "GET", "/health", "", nil)
	step("2. Common questions (en)", "GET", "/faq/v1/common-questions?language=en", "", nil)

	sessionID := uuid.NewString()

	// Vacation dialogue: trigger, then an employee id.
	step("3. Vacation trigger", "POST", "/faq/v1/ask", "", map[string]interface{}{
		"question":          "How many vacation days do I have remaining?",
		"session_id":        sessionID,
		"language":          "en",
		"is_menu_selection": true,
	})
	step("4. Vacation employee id", "POST", "/faq/v1/ask", "", map[string]interface{}{
		"question":   getEnv("SMOKE_EMPLOYEE_ID", "1001"),
		"session_id": sessionID,
		"language":   "en",
	})

	// Free-form question through retrieval.
	answer := step("5. Free-form question", "POST", "/faq/v1/ask", "", map[string]interface{}{
		"question": "كم عدد أيام الإجازة السنوية؟",
		"language": "ar",
	})

	if id, ok := data(answer)["question_id"].(float64); ok {
		step("6. Feedback", "POST", "/faq/v1/feedback", "", map[string]interface{}{
			"question_id": int64(id),
			"is_good":     true,
		})
	} else {
		color.Magenta("\n6. Feedback skipped: no question_id returned")
	}

	secret := os.Getenv("ADMIN_SECRET")
	if secret == "" {
		color.Magenta("\nADMIN_SECRET not set, skipping admin checks")
		color.Cyan("\nSmoke test finished")
		return
	}

	tokenResp := step("7. Admin token", "POST", "/admin/v1/token", "", map[string]interface{}{"secret": secret})
	token, _ := data(tokenResp)["token"].(string)
	if token == "" {
		color.Red("No admin token issued")
		os.Exit(1)
	}

	step("8. Pending questions", "GET", "/admin/v1/questions?status=pending&limit=5", token, nil)
	step("9. Clear session", "DELETE", "/admin/v1/sessions/"+sessionID, token, nil)

	color.Cyan("\nSmoke test finished")
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
