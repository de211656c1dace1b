package models

import "time"

// Task is a reward task users complete for points.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	PointReward float64   `json:"pointReward"`
	ImageURL    string    `json:"imageUrl"`
	Link        string    `json:"link"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateTaskInput carries the fields accepted on task creation.
type CreateTaskInput struct {
	Title       string  `json:"title"`
	PointReward float64 `json:"pointReward"`
	ImageURL    string  `json:"imageUrl"`
	Link        string  `json:"link"`
}

// UserTasks splits the task catalog by completion state for one user.
type UserTasks struct {
	Completed   []Task `json:"completed"`
	Uncompleted []Task `json:"uncompleted"`
}
