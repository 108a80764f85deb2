package portaltest

import "github.com/examsetu/examsetu-client/internal/model"

// Student is the default student account.
var Student = Account{
	Password: "123456",
	User: model.User{
		ID:    7,
		Name:  "Samarth",
		Email: "c6s1@student.com",
		Role:  model.RoleStudent,
	},
}

// Teacher is the default teacher account.
var Teacher = Account{
	Password: "123456",
	User: model.User{
		ID:    2,
		Name:  "Physics Teacher",
		Email: "physics.teacher@testportal.com",
		Role:  model.RoleTeacher,
	},
}

// PhysicsAttempt is a three question attempt lasting ten minutes:
// two objective questions followed by one subjective question.
func PhysicsAttempt() *model.AttemptDetail {
	return &model.AttemptDetail{
		Subject:        "Physics",
		TotalQuestions: 3,
		DurationMin:    10,
		Questions: []model.AttemptQuestion{
			{
				Type:         model.QuestionTypeObjective,
				QuestionText: "What is the formula of Kinetic Energy?",
				Options: []model.Option{
					{ID: 1, Text: "KE = 1/2 mV³"},
					{ID: 2, Text: "KE = 1/2 mV²"},
					{ID: 3, Text: "KE = 1/2 ma"},
					{ID: 4, Text: "KE = 1/2 mgh"},
				},
				OrderNo:    1,
				QuestionID: 501,
			},
			{
				Type:         model.QuestionTypeObjective,
				QuestionText: "What is the SI unit of Force?",
				Options: []model.Option{
					{ID: 5, Text: "Newton"},
					{ID: 6, Text: "Joule"},
					{ID: 7, Text: "Watt"},
					{ID: 8, Text: "Pascal"},
				},
				OrderNo:    2,
				QuestionID: 502,
			},
			{
				Type:         model.QuestionTypeSubjective,
				QuestionText: "State all the 3 laws of Newton.",
				OrderNo:      3,
				QuestionID:   503,
			},
		},
	}
}

// NewWithDefaults returns a portal with the student and teacher accounts
// and attempt 42 loaded.
func NewWithDefaults() *Portal {
	p := New()
	p.Accounts[Student.User.Email] = Student
	p.Accounts[Teacher.User.Email] = Teacher
	p.Attempts[42] = PhysicsAttempt()
	p.StartTemplate = PhysicsAttempt()
	return p
}
