package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletionPercentage(t *testing.T) {
	tests := []struct {
		name string
		app  Application
		want int
	}{
		{
			name: "empty application",
			app:  Application{},
			want: 0,
		},
		{
			name: "all counted fields filled",
			app: Application{
				FullName: "Иван Иванов", Address: "Москва", Phone: "+79001234567",
				Email: "ivan@example.com", PassportMain: "a.jpg", PassportRegistration: "b.jpg",
				Snils: "123", Inn: "456", MaritalStatus: "Не женат",
				Children: "Нет", EmergencyContact: "+79009876543",
			},
			want: 100,
		},
		{
			name: "additional info does not count",
			app:  Application{AdditionalInfo: "что-то ещё"},
			want: 0,
		},
		{
			name: "partial fill floors the percentage",
			app:  Application{FullName: "Иван", Phone: "+7900", Email: "x@y.z"},
			want: 27, // 3 of 11
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.app.CompletionPercentage())
		})
	}
}

func TestIsKnownApplicationField(t *testing.T) {
	for _, name := range KnownApplicationFields() {
		assert.True(t, IsKnownApplicationField(name), name)
	}
	assert.False(t, IsKnownApplicationField("favorite_color"))
	assert.False(t, IsKnownApplicationField(""))
}
