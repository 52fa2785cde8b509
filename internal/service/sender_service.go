package service

import (
	"fmt"
	"log"
	"time"

	"servibook/internal/db"
	"servibook/internal/entities"
	"servibook/internal/repository"
)

// SenderService delivers booking notifications over email and SMS. Lookups
// and sends run off the request path; a failed send is logged, never surfaced
// to the caller.
type SenderService struct {
	catalog repository.CatalogRepository
}

func NewSenderService(catalog repository.CatalogRepository) *SenderService {
	return &SenderService{catalog: catalog}
}

func (s *SenderService) BookingCreated(b *db.Booking) {
	go s.notify(b, "created")
}

func (s *SenderService) BookingCancelled(b *db.Booking) {
	go s.notify(b, "cancelled")
}

func (s *SenderService) notify(b *db.Booking, event string) {
	data, customer, err := s.buildEmailData(b, event)
	if err != nil {
		log.Printf("ALERT: could not build notification data for booking %s: %v", b.Code, err)
		return
	}

	subject := fmt.Sprintf("Your %s booking is %s - Code: %s", data.BusinessName, event, data.BookingCode)
	plainBody := fmt.Sprintf(
		"Hello %s,\n\nYour booking at %s has been %s.\n\n"+
			"Booking Details:\n"+
			"Booking Code: %s\n"+
			"Service: %s\n"+
			"Start: %s\n"+
			"End: %s\n\n"+
			"Thank you for booking with %s.",
		data.CustomerName, data.BusinessName, event,
		data.BookingCode, data.ServiceName,
		data.StartTimeFormatted, data.EndTimeFormatted,
		data.BusinessName,
	)

	if customer.Email != "" {
		if err := SendEmailWithSendGrid(customer.Email, data.CustomerName, subject, plainBody, ""); err != nil {
			log.Printf("ALERT: email for booking %s failed: %v", data.BookingCode, err)
		}
	}

	if customer.Phone != "" {
		sms := fmt.Sprintf("%s: booking %s has been %s.\nStart: %s.\nMore details in your email.",
			data.BusinessName, data.BookingCode, event,
			b.StartTime.Format("02/01 15:04"),
		)
		if err := SendSMS(customer.Phone, sms); err != nil {
			log.Printf("ALERT: SMS for booking %s failed to %s: %v", data.BookingCode, customer.Phone, err)
		}
	}
}

func (s *SenderService) buildEmailData(b *db.Booking, event string) (entities.BookingEmailData, *db.Customer, error) {
	if b.CustomerID == nil {
		return entities.BookingEmailData{}, nil, fmt.Errorf("booking %s has no customer", b.Code)
	}
	customer, err := s.catalog.GetCustomer(*b.CustomerID)
	if err != nil {
		return entities.BookingEmailData{}, nil, err
	}
	if customer == nil {
		return entities.BookingEmailData{}, nil, fmt.Errorf("customer %d not found", *b.CustomerID)
	}

	business, err := s.catalog.GetBusiness(b.BusinessID)
	if err != nil {
		return entities.BookingEmailData{}, nil, err
	}
	svc, err := s.catalog.GetService(b.ServiceID)
	if err != nil {
		return entities.BookingEmailData{}, nil, err
	}

	businessName := "ServiBook"
	if business != nil {
		businessName = business.Name
	}
	serviceName := ""
	if svc != nil {
		serviceName = svc.Name
	}

	data := entities.BookingEmailData{
		CustomerName:       customer.Name,
		BookingCode:        b.Code,
		BusinessName:       businessName,
		ServiceName:        serviceName,
		StartTimeFormatted: b.StartTime.Format("02 Jan 2006 15:04"),
		EndTimeFormatted:   b.EndTime.Format("02 Jan 2006 15:04"),
		Status:             event,
		CurrentYear:        time.Now().Year(),
	}
	return data, customer, nil
}
