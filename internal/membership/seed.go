// internal/membership/seed.go
package membership

import (
	"context"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/civil"
	"sigs.k8s.io/yaml"
)

// Seed admits the given members through svc.Create. They are created last
// to first so the listing shows them in the order given.
func Seed(ctx context.Context, svc Service, inputs []MemberInput) error {
	for i := len(inputs) - 1; i >= 0; i-- {
		if _, err := svc.Create(ctx, inputs[i]); err != nil {
			return fmt.Errorf("seed member %d: %w", inputs[i].MemberNumber, err)
		}
	}
	return nil
}

// LoadMembersFile reads a list of member inputs from a YAML or JSON file
// using the same field names as the HTTP API.
func LoadMembersFile(path string) ([]MemberInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read members file: %w", err)
	}
	var inputs []MemberInput
	if err := yaml.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("parse members file %s: %w", path, err)
	}
	return inputs, nil
}

// CheckInput validates a member input without admitting it.
func CheckInput(in MemberInput) []string {
	return Validate(in.member())
}

// SeedMembers returns the demo member list the dashboard starts with.
func SeedMembers() []MemberInput {
	return []MemberInput{
		{
			MemberNumber: 1001,
			IDNumber:     "45773907H",
			Name:         "Juan Antonio Betancor Cabrera",
			Phone:        "666 777 888",
			Email:        "juanantoniobetancor@gmail.com",
			DateOfBirth:  date(1987, 1, 21),
			Address:      "C. San Borondón 22, 35558 Caleta de Famara, Las Palmas",
			RegisteredAt: date(2020, 1, 1),
			Children: []Child{
				{Name: "Josue Betancor Machín", DateOfBirth: date(2010, 3, 16)},
			},
			YearPayments: []int{2020, 2021, 2022, 2023, 2024, 2025},
		},
		{
			MemberNumber: 1002,
			IDNumber:     "12345678A",
			Name:         "Maria Lopez",
			Phone:        "612 456 789",
			Email:        "maria.lopez@example.com",
			DateOfBirth:  date(1990, 5, 15),
			Address:      "C. Mayor 10, 28013 Madrid",
			RegisteredAt: date(2019, 6, 1),
			Children:     []Child{{Name: "Ana Lopez", DateOfBirth: date(2015, 8, 20)}},
			YearPayments: []int{2019, 2020, 2021, 2022, 2023, 2025},
		},
		{
			MemberNumber: 1003,
			IDNumber:     "87654321B",
			Name:         "Carlos Martinez",
			Phone:        "987 654 321",
			Email:        "carlos.martinez@example.com",
			DateOfBirth:  date(1985, 11, 30),
			Address:      "Av. de la Constitución 5, 41001 Sevilla",
			IsRetired:    true,
			RegisteredAt: date(2018, 3, 15),
			YearPayments: []int{2018, 2019, 2020, 2021, 2025},
		},
		{
			MemberNumber: 1004,
			IDNumber:     "11223344C",
			Name:         "Laura Fernandez",
			Phone:        "654 321 987",
			Email:        "laura.fernandez@example.com",
			DateOfBirth:  date(1975, 7, 22),
			Address:      "C. de Alcalá 45, 28014 Madrid",
			IsRetired:    true,
			RegisteredAt: date(2017, 9, 10),
			Children:     []Child{{Name: "Pedro Fernandez", DateOfBirth: date(2000, 12, 1)}},
			Payments: []Payment{
				{Kind: PaymentRecord, Year: 2024, Amount: RetiredFee, Date: date(2024, 2, 3)},
				{Kind: PaymentRecord, Year: 2025, Amount: RetiredFee, Date: date(2025, 1, 15)},
			},
			YearPayments: []int{2017, 2018, 2019, 2020, 2021, 2022},
		},
		{
			MemberNumber: 1005,
			IDNumber:     "55667788D",
			Name:         "Javier Gomez",
			Phone:        "721 654 987",
			Email:        "javier.gomez@example.com",
			DateOfBirth:  date(1995, 2, 18),
			Address:      "C. de Serrano 25, 28001 Madrid",
			RegisteredAt: date(2021, 1, 20),
			YearPayments: []int{2021, 2022, 2023},
		},
		{
			MemberNumber: 1006,
			IDNumber:     "99887766E",
			Name:         "Ana Torres",
			Phone:        "789 123 456",
			Email:        "ana.torres@example.com",
			DateOfBirth:  date(1982, 9, 9),
			Address:      "C. de Velázquez 30, 28006 Madrid",
			RegisteredAt: date(2020, 5, 5),
			Children:     []Child{{Name: "Luis Torres", DateOfBirth: date(2012, 4, 10)}},
			YearPayments: []int{2020, 2021, 2022, 2023, 2025},
		},
		{
			MemberNumber: 1007,
			IDNumber:     "33445566F",
			Name:         "Miguel Sanchez",
			Phone:        "656 789 123",
			Email:        "miguel.sanchez@example.com",
			DateOfBirth:  date(1978, 3, 25),
			Address:      "C. de Goya 50, 28001 Madrid",
			IsRetired:    true,
			RegisteredAt: date(2016, 11, 30),
			Children:     []Child{{Name: "Sara Sanchez", DateOfBirth: date(2005, 7, 15)}},
			YearPayments: []int{2016, 2017, 2018, 2019, 2020, 2021},
		},
		{
			MemberNumber: 1008,
			IDNumber:     "44556677G",
			Name:         "Elena Ruiz",
			Phone:        "654 987 321",
			Email:        "elena.ruiz@example.com",
			DateOfBirth:  date(1992, 6, 12),
			Address:      "C. de Atocha 15, 28012 Madrid",
			RegisteredAt: date(2019, 8, 25),
			Children:     []Child{{Name: "David Ruiz", DateOfBirth: date(2018, 11, 5)}},
			YearPayments: []int{2019, 2020, 2021, 2022, 2023, 2025},
		},
		{
			MemberNumber: 1009,
			IDNumber:     "66778899H",
			Name:         "Pablo Moreno",
			Phone:        "621 987 654",
			Email:        "pablo.moreno@example.com",
			DateOfBirth:  date(1950, 1, 10),
			Address:      "C. de la Princesa 40, 28008 Madrid",
			RegisteredAt: date(2015, 4, 18),
			Children:     []Child{{Name: "Lucia Moreno", DateOfBirth: date(2003, 9, 22)}},
			YearPayments: []int{2015, 2016, 2017, 2018, 2019, 2020, 2025},
		},
		{
			MemberNumber: 1010,
			IDNumber:     "X7788990I",
			Name:         "Isabel Garcia",
			Phone:        "+34 687 321 654",
			Email:        "isabel.garcia@example.com",
			DateOfBirth:  date(1998, 4, 5),
			Address:      "C. de Fuencarral 60, 28004 Madrid",
			RegisteredAt: date(2022, 2, 14),
			Payments: []Payment{
				{Kind: PaymentPeriod, FromDate: date(2022, 2, 14), ToDate: date(2023, 2, 13), CreatedAt: date(2022, 2, 14)},
				{Kind: PaymentPeriod, FromDate: date(2025, 1, 1), ToDate: date(2025, 12, 31), CreatedAt: date(2025, 1, 2)},
			},
		},
	}
}

func date(year int, month int, day int) civil.Date {
	return civil.Date{Year: year, Month: time.Month(month), Day: day}
}
