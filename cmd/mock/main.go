package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

type Request struct {
	Prompt string `json:"prompt"`
}

type Response struct {
	Response string `json:"response"`
}

func handler(w http.ResponseWriter, r *http.Request) {
	var req Request
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := Response{
		Response: `{"recommendations": [` +
			`"Публикуйте больше постов с хэштегом #акция: они собирают заметно больше вовлечения", ` +
			`"Держите длину постов в диапазоне 101-150 символов", ` +
			`"Планируйте публикации на вечернее время 18:00-20:00", ` +
			`"Чередуйте продающие посты с образовательным контентом"]}`,
	}
	time.Sleep(2 * time.Second)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func main() {
	http.HandleFunc("/", handler)
	log.Println("Server is running on port 8081")
	log.Fatal(http.ListenAndServe(":8081", nil))
}
